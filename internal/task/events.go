package task

import (
	"log/slog"
	"sync"
	"time"
)

// EventType represents the lifecycle event being published.
type EventType string

// Lifecycle event types emitted by the manager.
const (
	EventTaskAdded     EventType = "task_added"
	EventTaskStarted   EventType = "task_started"
	EventTaskProgress  EventType = "task_progress"
	EventTaskCompleted EventType = "task_completed"
	EventTaskFailed    EventType = "task_failed"
	EventTaskCancelled EventType = "task_cancelled"
)

// Event carries a task snapshot taken at the moment of the transition.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Task      Task
}

// Listener is a function that receives lifecycle events.
type Listener func(Event)

type subscription struct {
	id EventType
	fn Listener
}

// eventBus fans lifecycle events out to registered listeners.
//
// Delivery is synchronous and in registration order, on the goroutine that
// performed the state transition. The manager emits with no locks held, so
// listeners may call back into the manager. A panicking listener is isolated
// and must not disturb other listeners or queue state.
type eventBus struct {
	mu        sync.RWMutex
	listeners map[EventType][]*subscription
	logger    *slog.Logger
}

func newEventBus(logger *slog.Logger) *eventBus {
	return &eventBus{
		listeners: make(map[EventType][]*subscription),
		logger:    logger.With("component", "event_bus"),
	}
}

// subscribe registers a listener for one event type and returns an
// unsubscribe function. Unsubscribing twice is harmless.
func (b *eventBus) subscribe(eventType EventType, fn Listener) func() {
	sub := &subscription{id: eventType, fn: fn}

	b.mu.Lock()
	b.listeners[eventType] = append(b.listeners[eventType], sub)
	count := len(b.listeners[eventType])
	b.mu.Unlock()

	b.logger.Debug("listener registered",
		"event_type", eventType,
		"listener_count", count)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.listeners[eventType]
		for i, s := range subs {
			if s == sub {
				b.listeners[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// publish delivers the event to every listener registered for its type.
func (b *eventBus) publish(event Event) {
	b.mu.RLock()
	subs := make([]*subscription, len(b.listeners[event.Type]))
	copy(subs, b.listeners[event.Type])
	b.mu.RUnlock()

	for _, sub := range subs {
		b.invoke(sub, event)
	}
}

// invoke calls a single listener, recovering from panics so one bad
// listener cannot break delivery to the rest.
func (b *eventBus) invoke(sub *subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked",
				"event_type", event.Type,
				"task_id", event.Task.ID,
				"panic", r)
		}
	}()
	sub.fn(event)
}
