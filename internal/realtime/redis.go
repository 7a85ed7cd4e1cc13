package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelName is the Redis channel carrying updates for one ticket.
func ChannelName(ticketID int64) string {
	return fmt.Sprintf("tickets:%d", ticketID)
}

// RedisBroker fans updates out across service instances with Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBroker builds a broker on an existing client.
func NewRedisBroker(client *redis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

// Publish sends update to the ticket channel.
func (b *RedisBroker) Publish(ctx context.Context, update TicketUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode ticket update: %w", err)
	}
	if err := b.client.Publish(ctx, ChannelName(update.TicketID), body).Err(); err != nil {
		return fmt.Errorf("publish ticket update: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so no update published
// afterwards is missed.
func (b *RedisBroker) Subscribe(ctx context.Context, ticketID int64) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, ChannelName(ticketID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe ticket %d: %w", ticketID, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan TicketUpdate, subscriberBuffer),
		done:   make(chan struct{}),
	}
	go sub.pump(b.logger)
	sub.cancel.bind(ctx, sub.Close)
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan TicketUpdate
	done   chan struct{}
	once   sync.Once
	cancel closeOnDone
}

func (s *redisSubscription) pump(logger *zap.Logger) {
	defer close(s.ch)
	in := s.pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var update TicketUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				logger.Warn("dropping malformed ticket update", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			select {
			case s.ch <- update:
			default:
			}
		}
	}
}

func (s *redisSubscription) Updates() <-chan TicketUpdate { return s.ch }

func (s *redisSubscription) Close() {
	s.once.Do(func() {
		s.cancel.release()
		close(s.done)
		_ = s.pubsub.Close()
	})
}
