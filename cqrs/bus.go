package cqrs

import (
	"context"
	"fmt"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/paycheckout/logger"
)

// Bus dispatches requests to the handler registered for their type.
type Bus struct {
	registry *Registry
	logger   logger.Logger
	tracer   trace.Tracer
	wrappers []WrapFunc
}

// Option configures a Bus.
type Option func(*Bus)

// WithWrappers appends wrappers that run between the logging stage and the
// handler. The first wrapper is the outermost one.
func WithWrappers(wrappers ...WrapFunc) Option {
	return func(b *Bus) {
		b.wrappers = append(b.wrappers, wrappers...)
	}
}

// WithTracerProvider opens a span for every dispatch, ahead of the meta
// stage. A nil tp uses the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *Bus) {
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		b.tracer = tp.Tracer(tracerName)
	}
}

// New creates a Bus reading handlers from registry.
func New(registry *Registry, log logger.Logger, opts ...Option) *Bus {
	b := &Bus{
		registry: registry,
		logger:   log.Named("cqrs.bus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dispatch resolves the handler for req and runs it through the stage chain.
//
// A request without a handler fails with HANDLER_NOT_FOUND before any stage
// runs. Handler errors are returned unchanged.
func (b *Bus) Dispatch(ctx context.Context, req Request) (any, error) {
	handler, err := b.registry.Resolve(req)
	if err != nil {
		b.logger.WithContext(ctx).With("request_type", fmt.Sprintf("%T", req)).Errorx(err)
		return nil, err
	}

	return b.chain(handler).Handle(ctx, req)
}

// chain folds the stages around handler, innermost first.
func (b *Bus) chain(handler Handler) Handler {
	for i := len(b.wrappers) - 1; i >= 0; i-- {
		handler = b.wrappers[i](handler)
	}
	handler = newLoggingStage(b.logger)(handler)
	handler = newMetaStage()(handler)
	if b.tracer != nil {
		handler = newTracingStage(b.tracer)(handler)
	}
	return handler
}

// DispatchAs dispatches req and asserts the handler result to T.
// A nil result yields the zero T.
func DispatchAs[T any](ctx context.Context, d Dispatcher, req Request) (T, error) {
	var zero T

	result, err := d.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, errResultTypeMismatch(result, reflect.TypeFor[T]())
	}
	return typed, nil
}
