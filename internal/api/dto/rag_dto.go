package dto

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// DocumentUploadRequest adds a snippet to the knowledge base.
type DocumentUploadRequest struct {
	Content  string         `json:"content" validate:"required"`
	Metadata map[string]any `json:"metadata"`
}

// DocumentUploadResponse acknowledges an upload.
type DocumentUploadResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// DocumentResponse is a knowledge-base entry without its embedding.
type DocumentResponse struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SuggestRequest asks for a drafted resolution.
type SuggestRequest struct {
	Description string `json:"description" validate:"required"`
}

// SuggestResponse carries the raw suggestion and its rendered HTML.
type SuggestResponse struct {
	Suggestion     string `json:"suggestion"`
	SuggestionHTML string `json:"suggestionHtml"`
}

// UploadResponse returns the public URL of a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// NewDocumentList maps documents.
func NewDocumentList(docs []domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentResponse{ID: d.ID, Content: d.Content, Metadata: d.Metadata, CreatedAt: d.CreatedAt})
	}
	return out
}
