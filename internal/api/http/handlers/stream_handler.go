package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/realtime"
	"github.com/spec-kit/complaint-desk/internal/service"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

const defaultKeepAlive = 25 * time.Second

// StreamHandler serves live ticket updates as server-sent events.
type StreamHandler struct {
	tickets   *service.TicketService
	broker    realtime.Broker
	keepAlive time.Duration
	logger    *zap.Logger
}

// NewStreamHandler constructs handler. A non-positive keepAlive uses the default interval.
func NewStreamHandler(tickets *service.TicketService, broker realtime.Broker, keepAlive time.Duration, logger *zap.Logger) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{tickets: tickets, broker: broker, keepAlive: keepAlive, logger: logger}
}

// Stream GET /tickets/:id/stream. The subscription is opened before the snapshot is read so
// no update between the two is lost.
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	id, err := ticketIDParam(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := h.broker.Subscribe(ctx, id)
	if err != nil {
		cancel()
		return apperrors.NewInternalError(fmt.Errorf("subscribe ticket %d: %w", id, err))
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), id)
	if err != nil {
		sub.Close()
		cancel()
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	snapshot := dto.NewTicketResponse(*ticket)
	logger := h.logger.With(zap.Int64("ticket_id", id))
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sub.Close()

		if err := writeEvent(w, "snapshot", snapshot); err != nil {
			return
		}
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()
		for {
			select {
			case update, ok := <-sub.Updates():
				if !ok {
					return
				}
				if err := writeEvent(w, "update", updateResponse(update)); err != nil {
					logger.Debug("stream closed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func updateResponse(update realtime.TicketUpdate) dto.TicketUpdateResponse {
	resp := dto.TicketUpdateResponse{
		Kind:      string(update.Kind),
		TicketID:  update.TicketID,
		Status:    update.Status,
		UpdatedAt: update.UpdatedAt,
	}
	if update.Message != nil {
		msg := dto.NewMessageResponse(*update.Message)
		resp.Message = &msg
	}
	return resp
}
