package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/internal/config"
)

func TestSMTPMailer_SkipsWithoutCredentials(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587})
	err := m.Send(context.Background(), Message{To: "john@voicebox.com", Subject: "hi", Text: "hi"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPMailer_BuildsMultipartMessage(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "desk@voicebox.com",
		Password: "secret",
		FromName: "Complaint Desk",
	})

	var buf bytes.Buffer
	_, err := m.build(Message{
		To:      "john@voicebox.com",
		Subject: "Your complaint has been resolved",
		Text:    "Resolved.",
		HTML:    "<p>Resolved.</p>",
	}).WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Your complaint has been resolved")
	assert.Contains(t, raw, "To: john@voicebox.com")
	assert.Contains(t, raw, `"Complaint Desk" <desk@voicebox.com>`)
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestSMTPMailer_HonoursCancelledContext(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}
