package wrapper

import (
	"context"
	"time"

	"github.com/rise-and-shine/paycheckout/cqrs"
)

// NewTimeoutWrapper bounds the handler's context with timeout.
// A non-positive timeout leaves the context untouched.
func NewTimeoutWrapper(timeout time.Duration) cqrs.WrapFunc {
	return func(next cqrs.Handler) cqrs.Handler {
		if timeout <= 0 {
			return next
		}

		return cqrs.HandlerFunc(func(ctx context.Context, req cqrs.Request) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next.Handle(ctx, req)
		})
	}
}
