package event

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/code19m/errx"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/samber/lo"

	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/meta"
	"github.com/rise-and-shine/paycheckout/val"
)

const (
	// CodeListenerPanicked marks a listener that panicked while handling an event.
	CodeListenerPanicked = "PANIC_RECOVERED"

	stackTraceSize = 4096
)

type binding struct {
	subscriber string
	listener   Listener
}

// Dispatcher fans events out to the listeners registered for their name.
//
// Subscriptions are made at startup. Publish may then be called from any
// goroutine; subscribing while publishing is not supported.
type Dispatcher struct {
	logger    logger.Logger
	metrics   metrics.Registry
	listeners map[string][]binding
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics sets the registry receiving the published and failed counters.
// A nil registry disables them.
func WithMetrics(registry metrics.Registry) Option {
	return func(d *Dispatcher) {
		d.metrics = registry
	}
}

// NewDispatcher creates a Dispatcher without subscribers.
func NewDispatcher(log logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:    log.Named("event.dispatcher"),
		metrics:   metrics.DefaultRegistry,
		listeners: make(map[string][]binding),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers every listener declared by sub.
// Nothing is registered when any declared listener is invalid.
func (d *Dispatcher) Subscribe(sub Subscriber) error {
	if sub == nil {
		return val.NewFieldError("subscriber", "This field is required")
	}

	name := sub.SubscriberName()
	if name == "" {
		return val.NewFieldError("subscriber_name", "This field is required")
	}

	declared := sub.SubscribedEvents()
	eventNames := lo.Keys(declared)
	slices.Sort(eventNames)

	for _, eventName := range eventNames {
		if err := validateBinding(eventName, name, declared[eventName]); err != nil {
			return errx.Wrap(err, errx.WithDetails(errx.D{"subscriber": name}))
		}
	}

	for _, eventName := range eventNames {
		d.add(eventName, name, declared[eventName])
	}
	return nil
}

// Listen registers a single listener for eventName under subscriberName.
func (d *Dispatcher) Listen(eventName, subscriberName string, listener Listener) error {
	if subscriberName == "" {
		return val.NewFieldError("subscriber_name", "This field is required")
	}
	if err := validateBinding(eventName, subscriberName, listener); err != nil {
		return err
	}

	d.add(eventName, subscriberName, listener)
	return nil
}

func (d *Dispatcher) add(eventName, subscriberName string, listener Listener) {
	d.listeners[eventName] = append(d.listeners[eventName], binding{
		subscriber: subscriberName,
		listener:   listener,
	})
}

func validateBinding(eventName, subscriberName string, listener Listener) error {
	if eventName == "" {
		return val.NewFieldError("event_name", "This field is required")
	}
	if listener == nil {
		return val.NewFieldError("listener",
			fmt.Sprintf("Listener of %s for %s must not be nil", subscriberName, eventName))
	}
	return nil
}

// Publish delivers e to every listener registered for its name, in
// registration order. A listener error or panic is logged and the remaining
// listeners still run. Publishing an event nobody listens to does nothing.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	if e == nil {
		return
	}

	name := e.EventName()
	bindings := d.listeners[name]

	d.count(name, "published")
	if len(bindings) == 0 {
		return
	}

	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{meta.EventName: name})

	for _, b := range bindings {
		err := handleWithRecovery(ctx, b.listener, e)
		if err == nil {
			continue
		}

		d.count(name, "failed")

		d.logger.WithContext(ctx).
			With("event_name", name).
			With("subscriber", b.subscriber).
			With("error", logger.ErrObject(err)).
			Error("event listener failed")
	}
}

func (d *Dispatcher) count(eventName, outcome string) {
	if d.metrics == nil {
		return
	}
	metrics.GetOrRegisterCounter(fmt.Sprintf("event.%s.%s", eventName, outcome), d.metrics).Inc(1)
}

// Listeners returns the subscriber names registered for eventName, in
// delivery order.
func (d *Dispatcher) Listeners(eventName string) []string {
	return lo.Map(d.listeners[eventName], func(b binding, _ int) string {
		return b.subscriber
	})
}

func handleWithRecovery(ctx context.Context, listener Listener, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stackTrace := make([]byte, stackTraceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			err = errx.New("panic recovered while handling event",
				errx.WithCode(CodeListenerPanicked),
				errx.WithType(errx.T_Internal),
				errx.WithDetails(errx.D{
					"stack_trace":  string(stackTrace),
					"panic_values": fmt.Sprintf("%v", r),
				}),
			)
		}
	}()

	return listener.HandleEvent(ctx, e)
}
