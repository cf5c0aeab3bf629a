// Package event delivers domain events to the subscribers registered for them.
//
// Delivery is synchronous and in-process. A Dispatcher invokes every listener
// registered for an event name, in registration order, and never lets a
// failing listener stop the others.
package event

import "context"

// Event is a fact that already happened. Its name selects the listeners.
type Event interface {
	EventName() string
}

// Listener reacts to one kind of event.
type Listener interface {
	HandleEvent(ctx context.Context, e Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, e Event) error

// HandleEvent calls f(ctx, e).
func (f ListenerFunc) HandleEvent(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Subscriber declares statically which events it listens to.
type Subscriber interface {
	// SubscriberName identifies the subscriber in logs and introspection.
	SubscriberName() string

	// SubscribedEvents maps event names to the listener handling them.
	SubscribedEvents() map[string]Listener
}

// Nop is a listener that ignores the event.
//
//nolint:gochecknoglobals // stateless listener
var Nop Listener = ListenerFunc(func(context.Context, Event) error { return nil })
