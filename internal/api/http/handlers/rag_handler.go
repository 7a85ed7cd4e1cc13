package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/markdown"
	"github.com/spec-kit/complaint-desk/internal/service"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// RAGHandler exposes the knowledge base and resolution suggestions.
type RAGHandler struct {
	knowledge   *service.KnowledgeService
	suggestions *service.SuggestionService
	renderer    markdown.Renderer
}

// NewRAGHandler constructs handler.
func NewRAGHandler(knowledge *service.KnowledgeService, suggestions *service.SuggestionService, renderer markdown.Renderer) *RAGHandler {
	return &RAGHandler{knowledge: knowledge, suggestions: suggestions, renderer: renderer}
}

// Upload POST /rag/upload.
func (h *RAGHandler) Upload(c *fiber.Ctx) error {
	var req dto.DocumentUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := ValidateStruct(req); err != nil {
		return err
	}
	doc, err := h.knowledge.Upload(c.UserContext(), req.Content, req.Metadata)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DocumentUploadResponse{
		Message: "Document uploaded successfully",
		ID:      doc.ID,
	})
}

// Documents GET /rag/documents.
func (h *RAGHandler) Documents(c *fiber.Ctx) error {
	docs, err := h.knowledge.ListDocuments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDocumentList(docs))
}

// Suggest POST /rag/suggest. Generation failures still answer 200 with the fallback text.
func (h *RAGHandler) Suggest(c *fiber.Ctx) error {
	var req dto.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := ValidateStruct(req); err != nil {
		return err
	}
	suggestion := h.suggestions.Suggest(c.UserContext(), req.Description)
	html, err := h.renderer.ToHTMLSanitized(suggestion)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("render suggestion: %w", err))
	}
	return c.JSON(dto.SuggestResponse{Suggestion: suggestion, SuggestionHTML: html})
}
