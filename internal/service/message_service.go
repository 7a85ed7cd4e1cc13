package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// MessageService appends to ticket conversations.
type MessageService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(tickets repository.TicketRepository, messages repository.MessageRepository, users repository.UserRepository, dispatcher events.Dispatcher) *MessageService {
	return &MessageService{tickets: tickets, messages: messages, users: users, dispatcher: dispatcher}
}

// MessageSendInput is a chat message to append.
type MessageSendInput struct {
	TicketID int64
	SenderID int64
	Content  string
}

// Send appends a message. Any existing user may post to any existing ticket.
func (s *MessageService) Send(ctx context.Context, input MessageSendInput) (*domain.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errorutil.NewValidationError("Missing required fields", map[string]any{"content": "required"})
	}

	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticketId": input.TicketID})
		}
		return nil, err
	}
	sender, err := s.users.GetByID(ctx, input.SenderID)
	if err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewNotFound("user", map[string]any{"senderId": input.SenderID})
		}
		return nil, err
	}

	msg := &domain.Message{TicketID: input.TicketID, SenderID: sender.ID, Content: content}
	if err := s.messages.Create(ctx, msg); err != nil {
		if errorutil.IsForeignKeyViolation(err) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticketId": input.TicketID})
		}
		return nil, fmt.Errorf("create message: %w", err)
	}
	summary := sender.Summary()
	msg.Sender = &summary

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventTicketMessageAdded, msg.TicketID, &sender.ID,
			events.TicketMessageAddedPayload{Message: *msg}))
	}
	return msg, nil
}
