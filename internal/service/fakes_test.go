package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/mail"
	"github.com/spec-kit/complaint-desk/internal/repository/memory"
)

type stubClassifier struct {
	analysis domain.Analysis
	err      error
}

func (s stubClassifier) Classify(context.Context, string) (domain.Analysis, error) {
	return s.analysis, s.err
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return s.vector, s.err
}

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

type stubMatcher struct {
	matches []domain.DocumentMatch
	err     error
}

func (s stubMatcher) Match(context.Context, []float32, float64, int) ([]domain.DocumentMatch, error) {
	return s.matches, s.err
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func vector(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = 0.01
	}
	return v
}

func createUser(t *testing.T, store *memory.Store, loginID, email string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{LoginID: loginID, Name: loginID + " Name", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}
