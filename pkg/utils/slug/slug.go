// Package slug derives URL-safe building identifiers and resolves collisions.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Fallback is used when a name has no ASCII letters or digits at all.
const Fallback = "building"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Slugify lowercases name, collapses every run of non [a-z0-9] characters
// into a single dash and trims dashes at both ends.
func Slugify(name string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// Allocate returns candidate when it is free, otherwise the first free
// candidate-1, candidate-2, ... The probe is not atomic with the insert that
// follows it; the unique index on the column is the final arbiter.
func Allocate(ctx context.Context, candidate string, exists ExistsFunc) (string, error) {
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", candidate, err)
	}
	if !taken {
		return candidate, nil
	}

	for counter := 1; ; counter++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		next := fmt.Sprintf("%s-%d", candidate, counter)
		taken, err := exists(ctx, next)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", next, err)
		}
		if !taken {
			return next, nil
		}
	}
}
