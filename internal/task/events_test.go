package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(eventType EventType) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Task:      Task{ID: uuid.New(), Kind: KindNextStep, Status: StatusPending},
	}
}

func TestEventBus_DeliversInRegistrationOrder(t *testing.T) {
	t.Parallel()

	bus := newEventBus(testLogger())

	var order []string
	bus.subscribe(EventTaskAdded, func(e Event) { order = append(order, "first") })
	bus.subscribe(EventTaskAdded, func(e Event) { order = append(order, "second") })
	bus.subscribe(EventTaskAdded, func(e Event) { order = append(order, "third") })

	bus.publish(testEvent(EventTaskAdded))

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestEventBus_FiltersByType(t *testing.T) {
	t.Parallel()

	bus := newEventBus(testLogger())

	var got []EventType
	bus.subscribe(EventTaskCompleted, func(e Event) { got = append(got, e.Type) })

	bus.publish(testEvent(EventTaskAdded))
	bus.publish(testEvent(EventTaskCompleted))
	bus.publish(testEvent(EventTaskFailed))

	require.Equal(t, []EventType{EventTaskCompleted}, got)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	bus := newEventBus(testLogger())

	count := 0
	unsubscribe := bus.subscribe(EventTaskAdded, func(e Event) { count++ })

	bus.publish(testEvent(EventTaskAdded))
	unsubscribe()
	bus.publish(testEvent(EventTaskAdded))

	assert.Equal(t, 1, count)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestEventBus_PanickingListenerIsIsolated(t *testing.T) {
	t.Parallel()

	bus := newEventBus(testLogger())

	var delivered []string
	bus.subscribe(EventTaskAdded, func(e Event) { delivered = append(delivered, "before") })
	bus.subscribe(EventTaskAdded, func(e Event) { panic("listener bug") })
	bus.subscribe(EventTaskAdded, func(e Event) { delivered = append(delivered, "after") })

	require.NotPanics(t, func() {
		bus.publish(testEvent(EventTaskAdded))
	})
	assert.Equal(t, []string{"before", "after"}, delivered)
}

func TestEventBus_EventCarriesSnapshot(t *testing.T) {
	t.Parallel()

	// A listener mutating the delivered task must not affect queue state.
	m := newTestManager(t, fastConfig())

	var seen Task
	defer m.Subscribe(EventTaskAdded, func(e Event) {
		seen = e.Task
		e.Task.Payload = "mutated"
	})()

	id := m.Enqueue(KindDeepen, "passage")

	assert.Equal(t, id, seen.ID)
	assert.Equal(t, StatusPending, seen.Status)

	snap, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, "passage", snap.Payload)
}
