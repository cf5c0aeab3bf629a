// Package query defines interfaces and types for CQRS query handling.
//
// Queries represent read-only operations that return results and do not change state.
package query

import (
	"context"

	"github.com/rise-and-shine/paycheckout/cqrs"
)

// Query is implemented by every query envelope.
type Query interface {
	cqrs.Request
}

// Handler defines a handler for a CQRS query.
type Handler[Q Query, R any] interface {
	// Execute processes the query and returns a result or error.
	Execute(ctx context.Context, q Q) (R, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[Q Query, R any] func(ctx context.Context, q Q) (R, error)

// Execute calls f(ctx, q).
func (f HandlerFunc[Q, R]) Execute(ctx context.Context, q Q) (R, error) {
	return f(ctx, q)
}

// Register binds h to the query type Q.
func Register[Q Query, R any](reg *cqrs.Registry, h Handler[Q, R]) error {
	if h == nil {
		return cqrs.RegisterFunc[Q, R](reg, nil)
	}
	return cqrs.RegisterFunc(reg, h.Execute)
}

// Ask sends q through d and returns its typed result.
func Ask[R any](ctx context.Context, d cqrs.Dispatcher, q Query) (R, error) {
	return cqrs.DispatchAs[R](ctx, d, q)
}
