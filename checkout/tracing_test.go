package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rise-and-shine/paycheckout/event"
	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/paypal"
	"github.com/rise-and-shine/paycheckout/tracing"
	"github.com/rise-and-shine/paycheckout/val"
)

type nopGateway struct{}

func (nopGateway) FetchOrder(context.Context, paypal.OrderID) (paypal.Order, error) {
	return paypal.Order{}, nil
}

func (nopGateway) CaptureOrder(context.Context, paypal.OrderID, string) (paypal.Order, error) {
	return paypal.Order{}, nil
}

type unnamedSubscriber struct{}

func (unnamedSubscriber) SubscriberName() string { return "" }

func (unnamedSubscriber) SubscribedEvents() map[string]event.Listener { return nil }

func TestNewShutsDownTracingWhenWiringFails(t *testing.T) {
	shutdowns := 0
	original := newTracerProvider
	newTracerProvider = func(context.Context, tracing.Config, string, string) (trace.TracerProvider, tracing.ShutdownFunc, error) {
		return noop.NewTracerProvider(), func(context.Context) error {
			shutdowns++
			return nil
		}, nil
	}
	t.Cleanup(func() { newTracerProvider = original })

	cfg := Config{ServiceName: "paycheckout", ServiceVersion: "test"}

	_, err := New(cfg, nopGateway{}, WithLogger(logger.Nop()), WithSubscribers(unnamedSubscriber{}))
	require.Error(t, err)
	assert.True(t, val.IsValidationError(err))
	assert.Equal(t, 1, shutdowns)

	m, err := New(cfg, nopGateway{}, WithLogger(logger.Nop()))
	require.NoError(t, err)
	assert.Equal(t, 1, shutdowns)

	require.NoError(t, m.Close(t.Context()))
	assert.Equal(t, 2, shutdowns)
}
