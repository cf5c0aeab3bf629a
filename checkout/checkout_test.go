package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/code19m/errx"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rise-and-shine/paycheckout/alert"
	"github.com/rise-and-shine/paycheckout/checkout"
	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/cqrs/query"
	"github.com/rise-and-shine/paycheckout/event"
	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/order"
	"github.com/rise-and-shine/paycheckout/paypal"
	"github.com/rise-and-shine/paycheckout/paypalorder"
	"github.com/rise-and-shine/paycheckout/val"
)

const orderID = "5O190127TN364715T"

type staticGateway struct {
	status string
}

func (g staticGateway) FetchOrder(_ context.Context, id paypal.OrderID) (paypal.Order, error) {
	return paypal.Order{ID: id.Value(), Status: g.status}, nil
}

func (g staticGateway) CaptureOrder(_ context.Context, id paypal.OrderID, _ string) (paypal.Order, error) {
	return paypal.Order{ID: id.Value(), Status: paypal.StatusCompleted}, nil
}

func testConfig() checkout.Config {
	return checkout.Config{
		ServiceName:    "paycheckout",
		ServiceVersion: "test",
		Metrics:        true,
	}
}

func TestModuleDispatchesStatusQuery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	recorder := tracetest.NewSpanRecorder()
	registry := metrics.NewRegistry()

	m, err := checkout.New(testConfig(), staticGateway{status: paypal.StatusCompleted},
		checkout.WithLogger(logger.FromZap(zap.New(core))),
		checkout.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))),
		checkout.WithMetricsRegistry(registry),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	q, err := paypalorder.NewGetCurrentPayPalOrderStatusQuery(orderID)
	require.NoError(t, err)

	res, err := query.Ask[paypalorder.GetCurrentPayPalOrderStatusResult](t.Context(), m.Bus(), q)
	require.NoError(t, err)
	assert.Equal(t, paypal.StatusCompleted, res.Status)

	busEntries := logs.Filter(func(e observer.LoggedEntry) bool {
		return e.LoggerName == "cqrs.bus"
	}).All()
	require.Len(t, busEntries, 2)
	assert.Equal(t, "paycheckout", busEntries[0].ContextMap()["service_name"])

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, q.RequestName(), spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), busEntries[0].ContextMap()["trace_id"])

	assert.NotNil(t, registry.Get("cqrs.paypal.order.get_current_status.duration"))
	assert.Same(t, registry, m.Metrics())
}

func TestModuleWiresSubscribers(t *testing.T) {
	extra := recorder{}

	m, err := checkout.New(testConfig(), staticGateway{status: paypal.StatusApproved},
		checkout.WithLogger(logger.Nop()),
		checkout.WithTracerProvider(sdktrace.NewTracerProvider()),
		checkout.WithSubscribers(&extra),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"order.events"}, m.Events().Listeners(order.EventOrderCreated))
	assert.Equal(t,
		[]string{"paypalorder.cache", "test.recorder"},
		m.Events().Listeners(paypalorder.EventPayPalOrderApproved),
	)

	assert.Len(t, m.Registry().RequestTypes(), 4)

	err = paypalorder.Register(m.Registry(), m.OrderCache(), staticGateway{}, m.Events())
	assert.True(t, cqrs.IsDuplicateHandler(err))
}

func TestModuleRejectsInvalidSetup(t *testing.T) {
	_, err := checkout.New(testConfig(), nil, checkout.WithLogger(logger.Nop()))
	require.Error(t, err)

	_, err = checkout.New(testConfig(), staticGateway{},
		checkout.WithLogger(logger.Nop()),
		checkout.WithTracerProvider(sdktrace.NewTracerProvider()),
		checkout.WithSubscribers(&recorder{skipName: true}),
	)
	assert.True(t, val.IsValidationError(err))
}

func TestModuleWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics = false

	m, err := checkout.New(cfg, staticGateway{status: paypal.StatusCreated},
		checkout.WithLogger(logger.Nop()),
		checkout.WithTracerProvider(sdktrace.NewTracerProvider()),
	)
	require.NoError(t, err)
	assert.Nil(t, m.Metrics())

	q, err := paypalorder.NewGetCurrentPayPalOrderStatusQuery(orderID)
	require.NoError(t, err)

	_, err = query.Ask[paypalorder.GetCurrentPayPalOrderStatusResult](t.Context(), m.Bus(), q)
	require.NoError(t, err)
}

type failingGateway struct{}

func (failingGateway) FetchOrder(context.Context, paypal.OrderID) (paypal.Order, error) {
	return paypal.Order{}, errx.New("paypal unavailable", errx.WithCode("PAYPAL_UNAVAILABLE"), errx.WithType(errx.T_Internal))
}

func (failingGateway) CaptureOrder(context.Context, paypal.OrderID, string) (paypal.Order, error) {
	return paypal.Order{}, errx.New("paypal unavailable", errx.WithCode("PAYPAL_UNAVAILABLE"), errx.WithType(errx.T_Internal))
}

func TestModuleAlertsOnInternalFailure(t *testing.T) {
	sent := make(chan alert.Alert, 1)

	m, err := checkout.New(testConfig(), failingGateway{},
		checkout.WithLogger(logger.Nop()),
		checkout.WithTracerProvider(sdktrace.NewTracerProvider()),
		checkout.WithAlertProvider(alert.ProviderFunc(func(_ context.Context, a alert.Alert) error {
			sent <- a
			return nil
		})),
	)
	require.NoError(t, err)

	q, err := paypalorder.NewGetPayPalOrderQuery(orderID)
	require.NoError(t, err)

	_, err = query.Ask[paypal.Order](t.Context(), m.Bus(), q)
	require.True(t, errx.IsCodeIn(err, "PAYPAL_UNAVAILABLE"))

	select {
	case a := <-sent:
		assert.Equal(t, "paypal.order.get", a.Operation)
		assert.Equal(t, orderID, a.Details["paypal_order_id"])
	case <-time.After(time.Second):
		t.Fatal("alert was not sent")
	}
}

type recorder struct {
	skipName bool
	seen     []event.Event
}

func (r *recorder) SubscriberName() string {
	if r.skipName {
		return ""
	}
	return "test.recorder"
}

func (r *recorder) SubscribedEvents() map[string]event.Listener {
	return map[string]event.Listener{
		paypalorder.EventPayPalOrderApproved: event.ListenerFunc(func(_ context.Context, e event.Event) error {
			r.seen = append(r.seen, e)
			return nil
		}),
	}
}
