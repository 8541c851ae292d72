package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []string
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		seen = append(seen, "first")
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		seen = append(seen, "second")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		ID:        "evt-1",
		Type:      EventTicketCreated,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, seen)
}

func TestPublishContinuesPastHandlerError(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventReportCompleted, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventReportCompleted, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventReportCompleted})
	require.NoError(t, err)
	require.True(t, called)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketsResolved})
	require.NoError(t, err)
}

func TestSubscribeIsTypeScoped(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got Event
	dispatcher.Subscribe(EventReportFailed, func(_ context.Context, event Event) error {
		got = event
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventReportStarted}))
	require.Empty(t, got.Type)

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventReportFailed, ID: "evt-2"}))
	require.Equal(t, "evt-2", got.ID)
}
