package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/service"
)

// AdminHandler serves dashboard aggregates.
type AdminHandler struct {
	analytics *service.AnalyticsService
	metrics   *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(analytics *service.AnalyticsService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{analytics: analytics, metrics: metrics}
}

// Analytics GET /admin/analytics.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnalyticsResponse(summary))
}

// Metrics GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
