package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/ai"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// KnowledgeService manages the suggestion knowledge base.
type KnowledgeService struct {
	documents repository.DocumentRepository
	embedder  ai.Embedder
}

// NewKnowledgeService constructs the service.
func NewKnowledgeService(documents repository.DocumentRepository, embedder ai.Embedder) *KnowledgeService {
	return &KnowledgeService{documents: documents, embedder: embedder}
}

// Upload embeds content once and stores it.
func (s *KnowledgeService) Upload(ctx context.Context, content string, metadata map[string]any) (*domain.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errorutil.NewValidationError("Content is required and must be a string", nil)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed document: %w", err)
	}
	if len(embedding) != domain.EmbeddingDimensions {
		return nil, errorutil.NewInternalError(fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), domain.EmbeddingDimensions))
	}

	doc := &domain.Document{Content: content, Metadata: metadata, Embedding: embedding}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents newest first without embeddings.
func (s *KnowledgeService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.documents.List(ctx)
}
