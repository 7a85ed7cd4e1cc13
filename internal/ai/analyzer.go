package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

var codeFence = regexp.MustCompile("```(?:json)?\\n?")

// Analyzer classifies complaints by prompting a Generator for a JSON verdict.
type Analyzer struct {
	generator Generator
}

// NewAnalyzer builds an Analyzer.
func NewAnalyzer(generator Generator) *Analyzer {
	return &Analyzer{generator: generator}
}

type rawAnalysis struct {
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Sentiment string `json:"sentiment"`
}

// Classify returns an error when the model fails or replies with anything but a valid verdict.
func (a *Analyzer) Classify(ctx context.Context, description string) (domain.Analysis, error) {
	text, err := a.generator.Generate(ctx, ClassifyPrompt(description))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("generate classification: %w", err)
	}
	return ParseAnalysis(text)
}

// ParseAnalysis decodes a model reply, tolerating markdown code fences and lower-case enums.
func ParseAnalysis(text string) (domain.Analysis, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode classification: %w", err)
	}

	out := domain.Analysis{
		Category:  strings.TrimSpace(raw.Category),
		Priority:  domain.TicketPriority(strings.ToUpper(strings.TrimSpace(raw.Priority))),
		Sentiment: domain.Sentiment(strings.ToUpper(strings.TrimSpace(raw.Sentiment))),
	}
	if out.Category == "" {
		return domain.Analysis{}, fmt.Errorf("classification missing category")
	}
	if !out.Priority.Valid() {
		return domain.Analysis{}, fmt.Errorf("classification priority %q out of range", raw.Priority)
	}
	if !out.Sentiment.Valid() {
		return domain.Analysis{}, fmt.Errorf("classification sentiment %q out of range", raw.Sentiment)
	}
	return out, nil
}
