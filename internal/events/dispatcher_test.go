package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherPublishesToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventOrderCreated, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventOrderCreated, OrderID: "order-1"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.Equal(t, "order-1", seen[0].OrderID)

	// unrelated event types do not reach the handler
	err = d.Publish(context.Background(), Event{Type: EventOrderStatusChanged, OrderID: "order-2"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	d.Subscribe(EventOrderCreated, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	called := false
	d.Subscribe(EventOrderCreated, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventOrderCreated}))
	require.True(t, called)
}
