package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketMessageAdded  EventType = "ticket_message_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticketId"`
	ActorID   *int64    `json:"actorId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, ticketID int64, actorID *int64, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category *string               `json:"category,omitempty"`
	OwnerID  int64                 `json:"ownerId"`
}

// TicketStatusChangedPayload carries what the resolution mail needs.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus `json:"oldStatus"`
	NewStatus  domain.TicketStatus `json:"newStatus"`
	Note       string              `json:"note,omitempty"`
	Title      string              `json:"title"`
	OwnerName  string              `json:"ownerName"`
	OwnerEmail string              `json:"ownerEmail,omitempty"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	Message domain.Message `json:"message"`
}
