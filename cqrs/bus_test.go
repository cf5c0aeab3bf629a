package cqrs_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/meta"
)

type countingHandler struct {
	calls  int
	result any
	err    error
	ctx    context.Context
}

func (h *countingHandler) Handle(ctx context.Context, _ cqrs.Request) (any, error) {
	h.calls++
	h.ctx = ctx
	return h.result, h.err
}

func newBus(t *testing.T, reg *cqrs.Registry, opts ...cqrs.Option) (*cqrs.Bus, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	return cqrs.New(reg, logger.FromZap(zap.New(core)), opts...), logs
}

func TestBusDispatchSuccess(t *testing.T) {
	reg := cqrs.NewRegistry()
	handler := &countingHandler{result: "COMPLETED"}
	require.NoError(t, reg.Register(reflect.TypeFor[statusQuery](), handler))

	bus, logs := newBus(t, reg)

	res, err := bus.Dispatch(t.Context(), statusQuery{OrderID: "5O190127TN364715T"})
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", res)
	assert.Equal(t, 1, handler.calls)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "dispatching request", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "request handled", entries[1].Message)
	assert.Equal(t, "COMPLETED", entries[1].ContextMap()["result"])
	assert.Equal(t, "test.order.status", entries[0].ContextMap()["request_name"])
	assert.Equal(t, "cqrs.bus", entries[0].LoggerName)
}

func TestBusDispatchHandlerNotFound(t *testing.T) {
	reg := cqrs.NewRegistry()
	handler := &countingHandler{result: "COMPLETED"}
	require.NoError(t, reg.Register(reflect.TypeFor[statusQuery](), handler))

	bus, logs := newBus(t, reg)

	res, err := bus.Dispatch(t.Context(), captureCommand{OrderID: "5O190127TN364715T"})

	require.Error(t, err)
	assert.True(t, cqrs.IsHandlerNotFound(err))
	assert.Nil(t, res)
	assert.Zero(t, handler.calls)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestBusDispatchPropagatesHandlerErrorUnchanged(t *testing.T) {
	errDeclined := errors.New("instrument declined")

	reg := cqrs.NewRegistry()
	require.NoError(t, reg.Register(reflect.TypeFor[captureCommand](), &countingHandler{err: errDeclined}))

	bus, logs := newBus(t, reg)

	_, err := bus.Dispatch(t.Context(), captureCommand{OrderID: "5O190127TN364715T", FundingSource: "card"})

	assert.Equal(t, errDeclined, err)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "request failed", logs.All()[1].Message)
	assert.Contains(t, logs.All()[1].ContextMap(), "error")
}

func TestBusDispatchValidationErrorLoggedAsWarning(t *testing.T) {
	validationErr := errx.New("bad", errx.WithCode("VALIDATION_FAILED"), errx.WithType(errx.T_Validation))

	reg := cqrs.NewRegistry()
	require.NoError(t, reg.Register(reflect.TypeFor[captureCommand](), &countingHandler{err: validationErr}))

	bus, logs := newBus(t, reg)

	_, err := bus.Dispatch(t.Context(), captureCommand{})
	require.Error(t, err)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestBusDispatchRecoversPanic(t *testing.T) {
	reg := cqrs.NewRegistry()
	require.NoError(t, reg.Register(reflect.TypeFor[captureCommand](), cqrs.HandlerFunc(
		func(context.Context, cqrs.Request) (any, error) {
			panic("gateway exploded")
		},
	)))

	bus, logs := newBus(t, reg)

	_, err := bus.Dispatch(t.Context(), captureCommand{})

	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, cqrs.CodePanicRecovered))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestBusWrappersRunBetweenLoggingAndHandler(t *testing.T) {
	var order []string

	record := func(name string) cqrs.WrapFunc {
		return func(next cqrs.Handler) cqrs.Handler {
			return cqrs.HandlerFunc(func(ctx context.Context, req cqrs.Request) (any, error) {
				order = append(order, name+":before")
				res, err := next.Handle(ctx, req)
				order = append(order, name+":after")
				return res, err
			})
		}
	}

	reg := cqrs.NewRegistry()
	require.NoError(t, reg.Register(reflect.TypeFor[statusQuery](), cqrs.HandlerFunc(
		func(context.Context, cqrs.Request) (any, error) {
			order = append(order, "handler")
			return "ok", nil
		},
	)))

	bus, logs := newBus(t, reg, cqrs.WithWrappers(record("outer"), record("inner")))

	_, err := bus.Dispatch(t.Context(), statusQuery{})
	require.NoError(t, err)

	assert.Equal(t, []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}, order)
	assert.Equal(t, 2, logs.Len())
}

func TestBusInjectsMeta(t *testing.T) {
	reg := cqrs.NewRegistry()
	handler := &countingHandler{result: "ok"}
	require.NoError(t, reg.Register(reflect.TypeFor[statusQuery](), handler))

	bus, _ := newBus(t, reg)

	t.Run("generated trace id", func(t *testing.T) {
		_, err := bus.Dispatch(t.Context(), statusQuery{})
		require.NoError(t, err)

		assert.Equal(t, "test.order.status", meta.Find(handler.ctx, meta.RequestName))
		assert.Contains(t, meta.Find(handler.ctx, meta.TraceID), "man-")
	})

	t.Run("existing trace id is kept", func(t *testing.T) {
		ctx := meta.InjectMetaToContext(t.Context(), map[meta.ContextKey]string{meta.TraceID: "trace-42"})

		_, err := bus.Dispatch(ctx, statusQuery{})
		require.NoError(t, err)

		assert.Equal(t, "trace-42", meta.Find(handler.ctx, meta.TraceID))
	})
}

func TestDispatchAs(t *testing.T) {
	reg := cqrs.NewRegistry()
	require.NoError(t, reg.Register(reflect.TypeFor[statusQuery](), constHandler("COMPLETED")))
	require.NoError(t, reg.Register(reflect.TypeFor[captureCommand](), constHandler(nil)))

	bus, _ := newBus(t, reg)

	status, err := cqrs.DispatchAs[string](t.Context(), bus, statusQuery{})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", status)

	_, err = cqrs.DispatchAs[int](t.Context(), bus, statusQuery{})
	assert.True(t, errx.IsCodeIn(err, cqrs.CodeResultTypeMismatch))

	empty, err := cqrs.DispatchAs[struct{}](t.Context(), bus, captureCommand{})
	require.NoError(t, err)
	assert.Equal(t, struct{}{}, empty)
}

func TestBusTracingStage(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reg := cqrs.NewRegistry()
	handler := &countingHandler{result: "COMPLETED"}
	require.NoError(t, reg.Register(reflect.TypeFor[statusQuery](), handler))
	require.NoError(t, reg.Register(reflect.TypeFor[captureCommand](), &countingHandler{err: errors.New("capture declined")}))

	bus, logs := newBus(t, reg, cqrs.WithTracerProvider(tp))

	_, err := bus.Dispatch(t.Context(), statusQuery{})
	require.NoError(t, err)

	_, err = bus.Dispatch(t.Context(), captureCommand{})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "test.order.status", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "capture declined", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)

	traceID := spans[0].SpanContext().TraceID().String()
	assert.Equal(t, traceID, meta.Find(handler.ctx, meta.TraceID))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, traceID, entries[0].ContextMap()["trace_id"])
	assert.Equal(t, traceID, entries[1].ContextMap()["trace_id"])
}
