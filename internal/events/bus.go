package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for pipeline notifications.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(SegmentClosedEvent{...})
func (b *Bus) Publish(ev Event) {
	// The generic Publish needs the concrete type, hence the switch.
	switch e := ev.(type) {
	case SegmentOpenedEvent:
		event.Publish(b.dispatcher, e)
	case SegmentClosedEvent:
		event.Publish(b.dispatcher, e)
	case CaptureFinishedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler
// parameter type determines which events it receives. Returns an
// unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e SegmentClosedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(SegmentOpenedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SegmentClosedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CaptureFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// No-op for unrecognized handler types.
		return func() {}
	}
}

// Close shuts the dispatcher down.
func (b *Bus) Close() error {
	return b.dispatcher.Close()
}
