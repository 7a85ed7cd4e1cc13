// Package realtime fans ticket updates out to live viewers.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// UpdateKind distinguishes the payload carried by a TicketUpdate.
type UpdateKind string

const (
	UpdateStatusChanged UpdateKind = "status_changed"
	UpdateMessageAdded  UpdateKind = "message_added"
)

// subscriberBuffer bounds per-viewer backlog; updates beyond it are dropped.
const subscriberBuffer = 16

// TicketUpdate is pushed to every viewer of a ticket.
type TicketUpdate struct {
	Kind      UpdateKind          `json:"kind"`
	TicketID  int64               `json:"ticketId"`
	Status    domain.TicketStatus `json:"status,omitempty"`
	Message   *domain.Message     `json:"message,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Broker publishes ticket updates and hands out per-ticket subscriptions.
// Delivery is best-effort and at-most-once.
type Broker interface {
	Publish(ctx context.Context, update TicketUpdate) error
	Subscribe(ctx context.Context, ticketID int64) (Subscription, error)
}

// Subscription is a live feed for one ticket. Close is idempotent; the Updates channel
// is closed once the subscription ends.
type Subscription interface {
	Updates() <-chan TicketUpdate
	Close()
}

// closeOnDone ties a subscription to its context. The AfterFunc callback can run Close
// before Subscribe has stored the stop function, so access is locked.
type closeOnDone struct {
	mu   sync.Mutex
	stop func() bool
}

func (h *closeOnDone) bind(ctx context.Context, closeFn func()) {
	stop := context.AfterFunc(ctx, closeFn)
	h.mu.Lock()
	h.stop = stop
	h.mu.Unlock()
}

func (h *closeOnDone) release() {
	h.mu.Lock()
	stop := h.stop
	h.mu.Unlock()
	if stop != nil {
		stop()
	}
}
