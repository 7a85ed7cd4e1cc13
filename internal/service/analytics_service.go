package service

import (
	"context"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
)

// topCategories caps the category breakdown on the admin dashboard.
const topCategories = 8

// AnalyticsService aggregates ticket counters.
type AnalyticsService struct {
	tickets repository.TicketRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(tickets repository.TicketRepository) *AnalyticsService {
	return &AnalyticsService{tickets: tickets}
}

// Summary returns totals and grouped counts, each group sorted by count descending.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.TicketAnalytics, error) {
	return s.tickets.Analytics(ctx, topCategories)
}
