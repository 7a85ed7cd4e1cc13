package realtime

import (
	"context"
	"sync"
)

// MemoryBroker delivers updates within a single process.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[int64]map[*memorySubscription]struct{}
}

// NewMemoryBroker creates an empty broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[int64]map[*memorySubscription]struct{})}
}

// Publish never blocks; full subscriber buffers drop the update.
func (b *MemoryBroker) Publish(_ context.Context, update TicketUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[update.TicketID] {
		select {
		case sub.ch <- update:
		default:
		}
	}
	return nil
}

// Subscribe registers a viewer; the subscription ends when ctx is done or Close is called.
func (b *MemoryBroker) Subscribe(ctx context.Context, ticketID int64) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &memorySubscription{
		broker:   b,
		ticketID: ticketID,
		ch:       make(chan TicketUpdate, subscriberBuffer),
	}

	b.mu.Lock()
	if b.subs[ticketID] == nil {
		b.subs[ticketID] = make(map[*memorySubscription]struct{})
	}
	b.subs[ticketID][sub] = struct{}{}
	b.mu.Unlock()

	sub.done.bind(ctx, sub.Close)
	return sub, nil
}

func (b *MemoryBroker) remove(sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.ticketID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.ticketID)
		}
	}
	close(sub.ch)
}

// subscriberCount is used by tests.
func (b *MemoryBroker) subscriberCount(ticketID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[ticketID])
}

type memorySubscription struct {
	broker   *MemoryBroker
	ticketID int64
	ch       chan TicketUpdate
	once     sync.Once
	done     closeOnDone
}

func (s *memorySubscription) Updates() <-chan TicketUpdate { return s.ch }

func (s *memorySubscription) Close() {
	s.once.Do(func() {
		s.done.release()
		s.broker.remove(s)
	})
}
