// Package checkout assembles the dispatch core of the PayPal checkout module:
// the handler registry, the command bus with its wrappers and the event
// dispatcher with the built-in subscribers.
package checkout

import (
	"context"

	"github.com/code19m/errx"
	metrics "github.com/rcrowley/go-metrics"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/paycheckout/alert"
	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/cqrs/wrapper"
	"github.com/rise-and-shine/paycheckout/event"
	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/meta"
	"github.com/rise-and-shine/paycheckout/order"
	"github.com/rise-and-shine/paycheckout/paypalorder"
	"github.com/rise-and-shine/paycheckout/tracing"
)

//nolint:gochecknoglobals // replaced in tests
var newTracerProvider = tracing.NewProvider

// Module owns the wired dispatch core.
type Module struct {
	logger   logger.Logger
	registry *cqrs.Registry
	bus      *cqrs.Bus
	events   *event.Dispatcher
	metrics  metrics.Registry
	cache    *paypalorder.OrderCache

	shutdownTracing tracing.ShutdownFunc
}

type options struct {
	logger         logger.Logger
	tracerProvider trace.TracerProvider
	metrics        metrics.Registry
	alerts         alert.Provider
	wrappers       []cqrs.WrapFunc
	subscribers    []event.Subscriber
}

// Option customizes New.
type Option func(*options)

// WithLogger uses log instead of building one from Config.Logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithTracerProvider uses tp instead of building one from Config.Tracing.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMetricsRegistry records metrics into registry instead of a fresh one.
func WithMetricsRegistry(registry metrics.Registry) Option {
	return func(o *options) {
		o.metrics = registry
	}
}

// WithAlertProvider reports internal dispatch failures to provider.
func WithAlertProvider(provider alert.Provider) Option {
	return func(o *options) {
		o.alerts = provider
	}
}

// WithWrappers installs additional bus wrappers inside the built-in ones.
func WithWrappers(wrappers ...cqrs.WrapFunc) Option {
	return func(o *options) {
		o.wrappers = append(o.wrappers, wrappers...)
	}
}

// WithSubscribers subscribes additional event subscribers after the built-in ones.
func WithSubscribers(subscribers ...event.Subscriber) Option {
	return func(o *options) {
		o.subscribers = append(o.subscribers, subscribers...)
	}
}

// New wires the registry, the bus and the event dispatcher. Any registration
// or subscription failure, a duplicate handler included, aborts construction.
func New(cfg Config, gateway paypalorder.OrderGateway, opts ...Option) (*Module, error) {
	if gateway == nil {
		return nil, errx.New("paypal order gateway is required", errx.WithType(errx.T_Internal))
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	meta.SetServiceInfo(cfg.ServiceName, cfg.ServiceVersion)

	m := &Module{
		registry:        cqrs.NewRegistry(),
		cache:           paypalorder.NewOrderCache(),
		metrics:         o.metrics,
		logger:          o.logger,
		shutdownTracing: func(context.Context) error { return nil },
	}

	if m.logger == nil {
		log, err := logger.New(cfg.Logger)
		if err != nil {
			return nil, err
		}
		m.logger = log
	}

	if m.metrics == nil && cfg.Metrics {
		m.metrics = metrics.NewRegistry()
	}

	tp := o.tracerProvider
	if tp == nil {
		provider, shutdown, err := newTracerProvider(context.Background(), cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
		if err != nil {
			return nil, err
		}
		tp = provider
		m.shutdownTracing = shutdown
	}

	if err := m.wire(gateway, tp, cfg, o); err != nil {
		_ = m.shutdownTracing(context.Background())
		return nil, err
	}

	m.logger.Named("checkout").
		With("request_types", m.registry.RequestTypes()).
		Info("checkout module ready")

	return m, nil
}

// wire subscribes the built-in and extra subscribers, registers the PayPal
// order handlers and builds the bus.
func (m *Module) wire(gateway paypalorder.OrderGateway, tp trace.TracerProvider, cfg Config, o options) error {
	m.events = event.NewDispatcher(m.logger, event.WithMetrics(m.metrics))

	subscribers := append([]event.Subscriber{
		paypalorder.NewCacheSubscriber(m.cache),
		order.NewEventSubscriber(),
	}, o.subscribers...)
	for _, sub := range subscribers {
		if err := m.events.Subscribe(sub); err != nil {
			return err
		}
	}

	if err := paypalorder.Register(m.registry, m.cache, gateway, m.events); err != nil {
		return err
	}

	var wrappers []cqrs.WrapFunc
	if o.alerts != nil {
		wrappers = append(wrappers, wrapper.NewAlertWrapper(m.logger, o.alerts))
	}
	if m.metrics != nil {
		wrappers = append(wrappers, wrapper.NewMetricsWrapper(m.metrics))
	}
	wrappers = append(wrappers,
		wrapper.NewValidationWrapper(),
		wrapper.NewTimeoutWrapper(cfg.HandlerTimeout),
	)
	wrappers = append(wrappers, o.wrappers...)

	m.bus = cqrs.New(m.registry, m.logger,
		cqrs.WithTracerProvider(tp),
		cqrs.WithWrappers(wrappers...),
	)

	return nil
}

// Bus returns the command and query bus.
func (m *Module) Bus() *cqrs.Bus {
	return m.bus
}

// Registry returns the handler registry. Further registrations must happen
// before the first dispatch.
func (m *Module) Registry() *cqrs.Registry {
	return m.registry
}

// Events returns the domain event dispatcher.
func (m *Module) Events() *event.Dispatcher {
	return m.events
}

// Metrics returns the registry holding the bus and dispatcher metrics, or
// nil when metrics are disabled.
func (m *Module) Metrics() metrics.Registry {
	return m.metrics
}

// OrderCache returns the cache of last seen PayPal orders.
func (m *Module) OrderCache() *paypalorder.OrderCache {
	return m.cache
}

// Close flushes spans and buffered log entries.
func (m *Module) Close(ctx context.Context) error {
	err := m.shutdownTracing(ctx)
	_ = m.logger.Sync()
	return err
}
