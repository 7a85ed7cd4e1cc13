// Package storage persists uploaded complaint photos on local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads/"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore validates and writes images into a directory.
type ImageStore struct {
	dir      string
	maxBytes int64
}

// NewImageStore builds a store rooted at dir.
func NewImageStore(dir string, maxBytes int64) *ImageStore {
	return &ImageStore{dir: dir, maxBytes: maxBytes}
}

// Save checks the declared type, size and sniffed content, then writes the file under a
// random name and returns its public URL. Rejections are validation errors.
func (s *ImageStore) Save(ctx context.Context, filename, declaredType string, size int64, r io.Reader) (string, error) {
	if _, ok := allowedImageTypes[declaredType]; !ok {
		return "", errorutil.NewValidationError("Invalid file type. Only JPEG, PNG, WebP, and GIF are allowed.",
			map[string]any{"type": declaredType})
	}
	if size > s.maxBytes {
		return "", errorutil.NewValidationError("File too large. Maximum size is 5MB.",
			map[string]any{"size": size, "max": s.maxBytes})
	}

	content, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return "", errorutil.NewValidationError("File too large. Maximum size is 5MB.",
			map[string]any{"max": s.maxBytes})
	}
	if len(content) == 0 {
		return "", errorutil.NewValidationError("No file provided", nil)
	}

	detected := mimetype.Detect(content).String()
	ext, ok := allowedImageTypes[detected]
	if !ok {
		return "", errorutil.NewValidationError("Invalid file type. Only JPEG, PNG, WebP, and GIF are allowed.",
			map[string]any{"detected": detected, "filename": filename})
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return PublicPrefix + name, nil
}

// Dir returns the directory served under PublicPrefix.
func (s *ImageStore) Dir() string {
	return s.dir
}
