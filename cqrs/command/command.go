// Package command defines interfaces and types for CQRS command handling.
//
// Commands represent operations that change state and may acknowledge with a
// result or nothing at all. Every command is routed by the bus on its exact Go
// type to a single handler registered through Register.
package command

import (
	"context"

	"github.com/rise-and-shine/paycheckout/cqrs"
)

// EmptyResult is a placeholder type for commands that do not return a result.
type (
	EmptyResult = struct{}
)

// Command is implemented by every command envelope.
type Command interface {
	cqrs.Request
}

// Handler defines a handler for a CQRS command.
//
// Execute runs the command with the given input and context, returning a result or error.
type Handler[C Command, R any] interface {
	// Execute processes the command and returns a result or error.
	Execute(ctx context.Context, cmd C) (R, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)

// Execute calls f(ctx, cmd).
func (f HandlerFunc[C, R]) Execute(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Register binds h to the command type C.
func Register[C Command, R any](reg *cqrs.Registry, h Handler[C, R]) error {
	if h == nil {
		return cqrs.RegisterFunc[C, R](reg, nil)
	}
	return cqrs.RegisterFunc(reg, h.Execute)
}

// Dispatch sends cmd through d and returns its typed result.
func Dispatch[R any](ctx context.Context, d cqrs.Dispatcher, cmd Command) (R, error) {
	return cqrs.DispatchAs[R](ctx, d, cmd)
}
