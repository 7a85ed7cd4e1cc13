package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/ai"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/observability"
)

const (
	// SimilarityThreshold is the minimum cosine similarity for a document to count as context.
	SimilarityThreshold = 0.7
	// MaxContextDocuments caps how many matches feed the prompt.
	MaxContextDocuments = 5

	// NoContextPlaceholder stands in for the context block when nothing matched.
	NoContextPlaceholder = "No previous solutions found in the knowledge base."
	// SuggestionFallback is returned whenever any step of the pipeline fails.
	SuggestionFallback = "Unable to generate AI suggestion at this time. Please try again later."
)

// DocumentMatcher finds knowledge-base documents similar to an embedding.
type DocumentMatcher interface {
	Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.DocumentMatch, error)
}

// SuggestionService drafts resolutions from similar past solutions.
type SuggestionService struct {
	embedder  ai.Embedder
	generator ai.Generator
	matcher   DocumentMatcher
	logger    *zap.Logger
}

// NewSuggestionService constructs the service.
func NewSuggestionService(embedder ai.Embedder, generator ai.Generator, matcher DocumentMatcher, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		embedder:  embedder,
		generator: generator,
		matcher:   matcher,
		logger:    observability.Component(logger, "rag_suggestion"),
	}
}

// Suggest never fails; errors are logged and replaced with SuggestionFallback.
func (s *SuggestionService) Suggest(ctx context.Context, description string) string {
	suggestion, err := s.suggest(ctx, description)
	if err != nil {
		s.logger.Error("suggestion failed", zap.Error(err))
		return SuggestionFallback
	}
	return suggestion
}

func (s *SuggestionService) suggest(ctx context.Context, description string) (string, error) {
	embedding, err := s.embedder.Embed(ctx, description)
	if err != nil {
		return "", fmt.Errorf("embed description: %w", err)
	}
	matches, err := s.matcher.Match(ctx, embedding, SimilarityThreshold, MaxContextDocuments)
	if err != nil {
		return "", fmt.Errorf("match documents: %w", err)
	}
	text, err := s.generator.Generate(ctx, ai.SuggestionPrompt(BuildContext(matches), description))
	if err != nil {
		return "", fmt.Errorf("generate suggestion: %w", err)
	}
	return text, nil
}

// BuildContext renders matches as numbered solutions separated by horizontal rules.
func BuildContext(matches []domain.DocumentMatch) string {
	if len(matches) == 0 {
		return NoContextPlaceholder
	}
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = fmt.Sprintf("Solution %d (Similarity: %.1f%%):\n%s", i+1, m.Similarity*100, m.Content)
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
