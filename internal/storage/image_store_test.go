package storage

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var de *errorutil.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.HTTPStatus
}

func TestImageStore_SavesPNG(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, 5*1024*1024)

	url, err := store.Save(context.Background(), "wifi.png", "image/png", int64(len(pngBytes)), bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, written)
}

func TestImageStore_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		declaredType string
		size         int64
		content      []byte
	}{
		{name: "pdf declared", declaredType: "application/pdf", size: 10, content: []byte("%PDF-1.4")},
		{name: "too large declared", declaredType: "image/png", size: 6 * 1024 * 1024, content: pngBytes},
		{name: "spoofed content", declaredType: "image/jpeg", size: 8, content: []byte("%PDF-1.4 not an image")},
		{name: "empty body", declaredType: "image/gif", size: 0, content: nil},
	}

	store := NewImageStore(t.TempDir(), 5*1024*1024)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), "file", tt.declaredType, tt.size, bytes.NewReader(tt.content))
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}
}

func TestImageStore_StreamLongerThanLimit(t *testing.T) {
	store := NewImageStore(t.TempDir(), 16)
	body := append(append([]byte{}, pngBytes...), make([]byte, 64)...)
	_, err := store.Save(context.Background(), "big.png", "image/png", 10, bytes.NewReader(body))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
