package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/realtime"
)

func TestRealtimeRelay_ForwardsTicketEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	broker := realtime.NewMemoryBroker()
	StartRealtimeRelay(dispatcher, broker, zap.NewNop())

	ctx := context.Background()
	sub, err := broker.Subscribe(ctx, 8)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketStatusChanged, 8, nil,
		events.TicketStatusChangedPayload{NewStatus: domain.TicketStatusInProgress})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketMessageAdded, 8, nil,
		events.TicketMessageAddedPayload{Message: domain.Message{ID: 3, TicketID: 8, Content: "hello"}})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketCreated, 8, nil, events.TicketCreatedPayload{})))

	var got []realtime.TicketUpdate
	for len(got) < 2 {
		select {
		case u := <-sub.Updates():
			got = append(got, u)
		case <-time.After(time.Second):
			t.Fatalf("expected 2 updates, got %d", len(got))
		}
	}
	assert.Equal(t, realtime.UpdateStatusChanged, got[0].Kind)
	assert.Equal(t, domain.TicketStatusInProgress, got[0].Status)
	assert.Equal(t, realtime.UpdateMessageAdded, got[1].Kind)
	assert.Equal(t, "hello", got[1].Message.Content)
	assert.Len(t, sub.Updates(), 0)
}
