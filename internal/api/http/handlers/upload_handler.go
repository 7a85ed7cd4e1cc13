package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/storage"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// UploadHandler accepts complaint photos.
type UploadHandler struct {
	images *storage.ImageStore
}

// NewUploadHandler constructs handler.
func NewUploadHandler(images *storage.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// Upload POST /upload with multipart field "file".
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("No file provided", nil)
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("open upload: %w", err))
	}
	defer file.Close()

	url, err := h.images.Save(c.UserContext(), header.Filename, header.Header.Get(fiber.HeaderContentType), header.Size, file)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: url})
}
