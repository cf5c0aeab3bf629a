// Package cqrs routes commands and queries to exactly one registered handler.
//
// A Registry maps the concrete Go type of a request to its handler. A Bus
// resolves the handler for every dispatched request and runs it inside a
// fixed chain of stages: resolution, metadata injection, logging, then any
// additional wrappers supplied by the caller (validation, tracing, metrics)
// around the handler itself. Delivery is synchronous and happens on the
// calling goroutine.
package cqrs

import (
	"context"

	"github.com/rise-and-shine/paycheckout/meta"
)

// Request is implemented by every command and query envelope.
//
// RequestName is used for log, trace and metric naming only. Routing is done
// on the request's exact Go type.
type Request interface {
	RequestName() string
}

// MetaCarrier is implemented by requests that contribute metadata to the dispatch context.
type MetaCarrier interface {
	Meta() map[meta.ContextKey]string
}

// Handler handles one request type.
type Handler interface {
	Handle(ctx context.Context, req Request) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}

// WrapFunc defines a middleware function for wrapping handlers.
//
// It takes the next stage of the chain and returns a new stage, enabling
// cross-cutting concerns without touching the handlers.
type WrapFunc func(next Handler) Handler

// Dispatcher dispatches requests. *Bus implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (any, error)
}
