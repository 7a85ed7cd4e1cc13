package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/realtime"
)

// StartRealtimeRelay forwards status and message events to live ticket viewers.
func StartRealtimeRelay(dispatcher events.Dispatcher, broker realtime.Broker, logger *zap.Logger) {
	if dispatcher == nil || broker == nil {
		return
	}
	relay := &realtimeRelay{broker: broker, logger: logger}
	dispatcher.Subscribe(events.EventTicketStatusChanged, relay.handleStatusChanged)
	dispatcher.Subscribe(events.EventTicketMessageAdded, relay.handleMessageAdded)
}

type realtimeRelay struct {
	broker realtime.Broker
	logger *zap.Logger
}

func (r *realtimeRelay) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	return r.publish(ctx, realtime.TicketUpdate{
		Kind:      realtime.UpdateStatusChanged,
		TicketID:  event.TicketID,
		Status:    payload.NewStatus,
		UpdatedAt: payload.UpdatedAt,
	})
}

func (r *realtimeRelay) handleMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	msg := payload.Message
	return r.publish(ctx, realtime.TicketUpdate{
		Kind:      realtime.UpdateMessageAdded,
		TicketID:  event.TicketID,
		Message:   &msg,
		UpdatedAt: msg.CreatedAt,
	})
}

// publish detaches from request cancellation so a client hanging up does not drop the update.
func (r *realtimeRelay) publish(ctx context.Context, update realtime.TicketUpdate) error {
	if err := r.broker.Publish(context.WithoutCancel(ctx), update); err != nil {
		if r.logger != nil {
			r.logger.Warn("realtime publish failed", zap.Int64("ticket_id", update.TicketID), zap.Error(err))
		}
		return err
	}
	return nil
}
