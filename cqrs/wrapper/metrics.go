package wrapper

import (
	"context"
	"fmt"
	"time"

	metrics "github.com/rcrowley/go-metrics"

	"github.com/rise-and-shine/paycheckout/cqrs"
)

// NewMetricsWrapper records a duration timer `cqrs.<name>.duration` and an
// error counter `cqrs.<name>.errors` per request name. A nil registry falls
// back to metrics.DefaultRegistry.
func NewMetricsWrapper(registry metrics.Registry) cqrs.WrapFunc {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}

	return func(next cqrs.Handler) cqrs.Handler {
		return cqrs.HandlerFunc(func(ctx context.Context, req cqrs.Request) (any, error) {
			start := time.Now()

			result, err := next.Handle(ctx, req)

			name := req.RequestName()
			metrics.GetOrRegisterTimer(fmt.Sprintf("cqrs.%s.duration", name), registry).UpdateSince(start)
			if err != nil {
				metrics.GetOrRegisterCounter(fmt.Sprintf("cqrs.%s.errors", name), registry).Inc(1)
			}

			return result, err
		})
	}
}
