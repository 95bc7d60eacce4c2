package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	first, stopFirst := bus.Subscribe()
	defer stopFirst()
	second, stopSecond := bus.Subscribe()
	defer stopSecond()

	bus.Publish(Event{ID: "e-1", Type: TypeAuditEvent})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case e := <-ch:
			assert.Equal(t, "e-1", e.ID)
		case <-time.After(time.Second):
			t.Fatal("expected delivery")
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	events, unsubscribe := bus.Subscribe()
	unsubscribe()

	// Publish after unsubscribe must not panic and the channel is closed.
	bus.Publish(Event{ID: "e-2"})

	_, open := <-events
	assert.False(t, open)
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewBus()

	_, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		// Far more events than the subscriber buffer holds.
		for i := 0; i < 1000; i++ {
			bus.Publish(Event{ID: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()

	_, unsubscribe := bus.Subscribe()
	require.NotPanics(t, func() {
		unsubscribe()
		unsubscribe()
	})
}
