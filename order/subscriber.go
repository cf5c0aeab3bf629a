package order

import (
	"context"

	"github.com/rise-and-shine/paycheckout/event"
)

// EventSubscriber listens to the shop order events. Its handlers do nothing
// yet; subscribing keeps the events observable through Dispatcher.Listeners.
type EventSubscriber struct{}

func NewEventSubscriber() *EventSubscriber {
	return &EventSubscriber{}
}

func (s *EventSubscriber) SubscriberName() string {
	return "order.events"
}

func (s *EventSubscriber) SubscribedEvents() map[string]event.Listener {
	return map[string]event.Listener{
		EventOrderCreated:        event.ListenerFunc(s.onOrderCreated),
		EventOrderPaymentCreated: event.ListenerFunc(s.onOrderPaymentCreated),
		EventOrderStatusUpdated:  event.ListenerFunc(s.onOrderStatusUpdated),
	}
}

func (s *EventSubscriber) onOrderCreated(context.Context, event.Event) error {
	return nil
}

func (s *EventSubscriber) onOrderPaymentCreated(context.Context, event.Event) error {
	return nil
}

func (s *EventSubscriber) onOrderStatusUpdated(context.Context, event.Event) error {
	return nil
}
