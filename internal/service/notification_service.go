package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/mail"
	"github.com/spec-kit/complaint-desk/internal/markdown"
	"github.com/spec-kit/complaint-desk/internal/observability"
)

// ResolvedSubject is the subject line of the resolution mail.
const ResolvedSubject = "Your complaint has been resolved"

// NotificationService emails ticket owners when their complaint is resolved.
type NotificationService struct {
	mailer   mail.Mailer
	renderer markdown.Renderer
	logger   *zap.Logger
}

// NewNotificationService creates the service. A nil renderer sends plain text only.
func NewNotificationService(mailer mail.Mailer, renderer markdown.Renderer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		mailer:   mailer,
		renderer: renderer,
		logger:   observability.Component(logger, "mailer"),
	}
}

// HandleStatusChanged mails the owner of a resolved ticket. Delivery failures are logged and
// swallowed so status updates always succeed.
func (n *NotificationService) HandleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if payload.NewStatus != domain.TicketStatusResolved {
		return nil
	}
	if strings.TrimSpace(payload.OwnerEmail) == "" {
		n.logger.Debug("owner has no email; skipping resolution mail", zap.Int64("ticket_id", event.TicketID))
		return nil
	}

	msg := n.resolvedMessage(event.TicketID, payload)
	err := n.mailer.Send(ctx, msg)
	switch {
	case err == nil:
		n.logger.Info("resolution mail sent", zap.Int64("ticket_id", event.TicketID), zap.String("to", msg.To))
	case errors.Is(err, mail.ErrNotConfigured):
		n.logger.Warn("skipping email: SMTP credentials not set", zap.Int64("ticket_id", event.TicketID))
	default:
		n.logger.Error("resolution mail failed", zap.Int64("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) resolvedMessage(ticketID int64, p events.TicketStatusChangedPayload) mail.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", p.OwnerName)
	fmt.Fprintf(&b, "Your complaint \"%s\" (ticket #%d) has been marked as resolved.\n", p.Title, ticketID)
	if p.Note != "" {
		fmt.Fprintf(&b, "\nResolution note:\n\n%s\n", p.Note)
	}
	b.WriteString("\nIf the problem persists, reply in the ticket conversation.\n")
	text := b.String()

	msg := mail.Message{To: p.OwnerEmail, Subject: ResolvedSubject, Text: text}
	if n.renderer != nil {
		html, err := n.renderer.ToHTMLSanitized(text)
		if err != nil {
			n.logger.Warn("rendering resolution note failed; sending plain text", zap.Error(err))
		} else {
			msg.HTML = html
		}
	}
	return msg
}
