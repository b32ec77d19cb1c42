// Package placement maps between pixel offsets inside a rendered facade image
// and the resolution-independent percentages stored on facade points.
package placement

import "errors"

var ErrEmptyViewport = errors.New("viewport width and height must be positive")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Pixel struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// FromPixels converts a click offset within a width x height container into
// percentages, clamped to the container bounds.
func FromPixels(offsetX, offsetY, width, height float64) (Point, error) {
	if width <= 0 || height <= 0 {
		return Point{}, ErrEmptyViewport
	}
	return Point{
		X: clamp(offsetX / width * 100),
		Y: clamp(offsetY / height * 100),
	}, nil
}

// ToPixels positions a stored point inside a width x height container.
func ToPixels(p Point, width, height float64) (Pixel, error) {
	if width <= 0 || height <= 0 {
		return Pixel{}, ErrEmptyViewport
	}
	return Pixel{
		Left: p.X / 100 * width,
		Top:  p.Y / 100 * height,
	}, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
