package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
)

const Quality = 85

// MaxPixels bounds the decoded size of an upload. The header is checked
// before the full decode.
var MaxPixels = 60_000_000

var ErrTooLarge = errors.New("image dimensions too large")

type encoder func(w io.Writer, img image.Image) error

var encoders = map[string]encoder{
	"jpeg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: Quality})
	},
	"png": func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	},
	"webp": func(w io.Writer, img image.Image) error {
		return webp.Encode(w, img, &webp.Options{Quality: Quality})
	},
}

// Process re-encodes a facade or gallery photo in its own format, dropping
// metadata. It returns the new bytes and their content type.
func Process(src io.Reader) (*bytes.Buffer, string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("could not read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}
	encode, ok := encoders[format]
	if !ok {
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}

	out := new(bytes.Buffer)
	if err := encode(out, img); err != nil {
		return nil, "", fmt.Errorf("could not encode image: %w", err)
	}
	return out, "image/" + format, nil
}
