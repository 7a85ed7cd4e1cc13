package dto

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// TicketCreateRequest mirrors the complaint form.
type TicketCreateRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=100"`
	Description string   `json:"description" validate:"required,min=20,max=2000"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Priority    *string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Location    *string  `json:"location" validate:"omitempty,max=255"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=2048"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	UserID      *int64   `json:"userId" validate:"omitempty,gt=0"`
}

// TicketStatusUpdateRequest updates a ticket's status.
type TicketStatusUpdateRequest struct {
	ID             int64  `json:"id" validate:"required,gt=0"`
	Status         string `json:"status" validate:"required"`
	ResolutionNote string `json:"resolutionNote" validate:"max=5000"`
}

// ChatSendRequest appends a message to a ticket conversation.
type ChatSendRequest struct {
	TicketID int64  `json:"ticketId" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required"`
	SenderID int64  `json:"senderId" validate:"required,gt=0"`
}

// TicketResponse is the JSON shape of a ticket.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    *string               `json:"category"`
	Location    *string               `json:"location"`
	ImageURL    *string               `json:"imageUrl"`
	Latitude    *float64              `json:"latitude"`
	Longitude   *float64              `json:"longitude"`
	AIAnalysis  *domain.Analysis      `json:"aiAnalysis"`
	UserID      int64                 `json:"userId"`
	User        *UserSummaryResponse  `json:"user,omitempty"`
	Messages    *[]MessageResponse    `json:"messages,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// MessageResponse is the JSON shape of a conversation message.
type MessageResponse struct {
	ID        int64                `json:"id"`
	Content   string               `json:"content"`
	TicketID  int64                `json:"ticketId"`
	SenderID  int64                `json:"senderId"`
	Sender    *UserSummaryResponse `json:"sender,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// NewTicketResponse maps a ticket; messages are included when loaded.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Category:    t.Category,
		Location:    t.Location,
		ImageURL:    t.ImageURL,
		AIAnalysis:  t.AIAnalysis,
		UserID:      t.UserID,
		User:        NewOwnerSummary(t.Owner),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Coordinates != nil {
		lat, lng := t.Coordinates.Latitude, t.Coordinates.Longitude
		resp.Latitude, resp.Longitude = &lat, &lng
	}
	if t.Messages != nil {
		msgs := make([]MessageResponse, 0, len(t.Messages))
		for _, m := range t.Messages {
			msgs = append(msgs, NewMessageResponse(m))
		}
		resp.Messages = &msgs
	}
	return resp
}

// NewTicketList maps a listing.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}

// NewMessageResponse maps a message.
func NewMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		TicketID:  m.TicketID,
		SenderID:  m.SenderID,
		Sender:    NewSenderSummary(m.Sender),
		CreatedAt: m.CreatedAt,
	}
}

// TicketUpdateResponse is the payload of an "update" stream event.
type TicketUpdateResponse struct {
	Kind      string              `json:"kind"`
	TicketID  int64               `json:"ticketId"`
	Status    domain.TicketStatus `json:"status,omitempty"`
	Message   *MessageResponse    `json:"message,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
