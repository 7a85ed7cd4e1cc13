package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/ai"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	users      repository.UserRepository
	classifier ai.Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	UserRepo    repository.UserRepository
	Classifier  ai.Classifier
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload. Category and Priority, when set,
// take precedence over the classifier's verdict.
type TicketCreateInput struct {
	UserID      int64
	Title       string
	Description string
	Category    *string
	Priority    *domain.TicketPriority
	Location    *string
	ImageURL    *string
	Coordinates *domain.Coordinates
}

// TicketListFilter describes dashboard listing filters.
type TicketListFilter struct {
	UserID     *int64
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		users:      deps.UserRepo,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket classifies and stores a complaint. Classification failures never fail the
// request; the default analysis is stored instead.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	owner, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewNotFound("user", map[string]any{"userId": input.UserID})
		}
		return nil, fmt.Errorf("load ticket owner: %w", err)
	}

	description := strings.TrimSpace(input.Description)
	analysis := s.classify(ctx, description)

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    analysis.Priority,
		Location:    nonEmpty(input.Location),
		ImageURL:    nonEmpty(input.ImageURL),
		Coordinates: input.Coordinates,
		AIAnalysis:  &analysis,
		UserID:      owner.ID,
	}
	category := analysis.Category
	ticket.Category = &category
	if c := nonEmpty(input.Category); c != nil {
		ticket.Category = c
	}
	if input.Priority != nil && input.Priority.Valid() {
		ticket.Priority = *input.Priority
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	summary := owner.Summary()
	ticket.Owner = &summary
	ticket.Messages = []domain.Message{}

	s.publishEvent(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, &owner.ID, events.TicketCreatedPayload{
		Title:    ticket.Title,
		Priority: ticket.Priority,
		Category: ticket.Category,
		OwnerID:  owner.ID,
	}))
	return ticket, nil
}

func (s *TicketService) classify(ctx context.Context, description string) domain.Analysis {
	if s.classifier == nil {
		return ai.DefaultAnalysis()
	}
	analysis, err := s.classifier.Classify(ctx, description)
	if err != nil {
		observability.Component(s.logger, "ai_analyzer").
			Warn("classification failed; using default analysis", zap.Error(err))
		return ai.DefaultAnalysis()
	}
	return analysis
}

// ListTickets returns tickets newest first with owner summaries.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{
		UserID:     filter.UserID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
	})
}

// GetTicket fetches a ticket with its conversation in chronological order.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticketId": id})
		}
		return nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	ticket.Messages = msgs
	return ticket, nil
}

// UpdateStatus moves a ticket to any known status; transitions are not restricted.
func (s *TicketService) UpdateStatus(ctx context.Context, actorID *int64, id int64, status domain.TicketStatus, note string) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, errorutil.NewValidationError("Invalid status", map[string]any{"status": status})
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticketId": id})
		}
		return nil, err
	}

	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticketId": id})
		}
		return nil, fmt.Errorf("update ticket status: %w", err)
	}

	updated, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := events.TicketStatusChangedPayload{
		OldStatus: current.Status,
		NewStatus: status,
		Note:      strings.TrimSpace(note),
		Title:     updated.Title,
		UpdatedAt: updated.UpdatedAt,
	}
	if updated.Owner != nil {
		payload.OwnerName = updated.Owner.Name
		payload.OwnerEmail = updated.Owner.Email
	}
	s.publishEvent(ctx, events.NewEvent(events.EventTicketStatusChanged, id, actorID, payload))
	return updated, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
