// pkg/utils/validation/media.go
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrFileRequired = errors.New("no file provided")
	ErrUnknownKind  = errors.New("unknown media kind. Allowed kinds: image, video, pdf")
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindPDF   Kind = "pdf"
)

type rule struct {
	maxSize      int64
	contentTypes map[string]bool
	extensions   map[string]bool
	label        string
}

var rules = map[Kind]rule{
	KindImage: {
		maxSize: 10 * 1024 * 1024, // 10MB
		contentTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		},
		extensions: map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
		label:      "JPG, PNG, WEBP",
	},
	KindVideo: {
		maxSize: 200 * 1024 * 1024, // 200MB
		contentTypes: map[string]bool{
			"video/mp4":       true,
			"video/webm":      true,
			"video/quicktime": true,
		},
		extensions: map[string]bool{".mp4": true, ".webm": true, ".mov": true},
		label:      "MP4, WEBM, MOV",
	},
	KindPDF: {
		maxSize:      25 * 1024 * 1024, // 25MB
		contentTypes: map[string]bool{"application/pdf": true},
		extensions:   map[string]bool{".pdf": true},
		label:        "PDF",
	},
}

// ParseKind defaults to image when s is empty.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindImage, nil
	}
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rules[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

func MaxSize(kind Kind) int64 {
	return rules[kind].maxSize
}

// ValidateContentType checks a declared content type and file name against
// the kind's allow-list. Used for presigned uploads where no bytes are seen.
func ValidateContentType(kind Kind, filename, contentType string) error {
	r, ok := rules[kind]
	if !ok {
		return ErrUnknownKind
	}
	if filename == "" {
		return ErrFileRequired
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(filename))
	if !r.contentTypes[mediaType] || !r.extensions[ext] {
		return fmt.Errorf("invalid file type. Allowed types: %s", r.label)
	}
	return nil
}

// ValidateFile also enforces the size limit.
func ValidateFile(kind Kind, filename, contentType string, size int64) error {
	if err := ValidateContentType(kind, filename, contentType); err != nil {
		return err
	}
	if size <= 0 {
		return ErrFileRequired
	}
	if size > rules[kind].maxSize {
		return fmt.Errorf("file size exceeds limit of %dMB", rules[kind].maxSize/(1024*1024))
	}
	return nil
}
