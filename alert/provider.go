// Package alert defines how failed dispatches are reported to an external
// monitoring system.
package alert

import "context"

// Alert describes one failure worth a human's attention.
type Alert struct {
	// Code is the errx code of the failure.
	Code string
	// Message is the error message.
	Message string
	// Operation names the request or event that failed, e.g. "paypal.order.capture".
	Operation string
	// Details carries the dispatch metadata (trace id, paypal order id, ...).
	Details map[string]string
}

// Provider sends alerts. Implementations must be safe for concurrent use.
type Provider interface {
	SendError(ctx context.Context, a Alert) error
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, a Alert) error

// SendError calls f(ctx, a).
func (f ProviderFunc) SendError(ctx context.Context, a Alert) error {
	return f(ctx, a)
}
