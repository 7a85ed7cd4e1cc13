// Package ai wraps the generative model used to classify complaints and draft resolutions.
package ai

import (
	"context"
	"errors"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// ErrNotConfigured is returned by Unavailable when no model credentials are set.
var ErrNotConfigured = errors.New("ai: model not configured")

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder maps text to a fixed-width vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Classifier labels a complaint description.
type Classifier interface {
	Classify(ctx context.Context, description string) (domain.Analysis, error)
}

// DefaultAnalysis is substituted whenever classification fails.
func DefaultAnalysis() domain.Analysis {
	return domain.Analysis{
		Category:  "Other",
		Priority:  domain.TicketPriorityMedium,
		Sentiment: domain.SentimentNeutral,
	}
}

// Unavailable satisfies Generator and Embedder when the service runs without an API key.
type Unavailable struct{}

// Generate always fails with ErrNotConfigured.
func (Unavailable) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Embed always fails with ErrNotConfigured.
func (Unavailable) Embed(context.Context, string) ([]float32, error) {
	return nil, ErrNotConfigured
}
