package cqrs

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/mask"
	"github.com/rise-and-shine/paycheckout/meta"
)

const (
	stackTraceSize = 4096
	tracerName     = "paycheckout/cqrs"
)

// newTracingStage starts a span named after the request. It runs before the
// meta stage so the span's trace id becomes the dispatch trace id.
func newTracingStage(tracer trace.Tracer) WrapFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (any, error) {
			ctx, span := tracer.Start(ctx, req.RequestName(),
				trace.WithAttributes(attribute.String("cqrs.request_type", fmt.Sprintf("%T", req))),
			)
			defer span.End()

			result, err := next.Handle(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return result, err
		})
	}
}

// newMetaStage puts the trace id, request name and request supplied metadata
// into the context of the downstream chain.
func newMetaStage() WrapFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (any, error) {
			data := map[meta.ContextKey]string{
				meta.TraceID:        getTraceID(ctx),
				meta.RequestName:    req.RequestName(),
				meta.ServiceName:    meta.GetServiceName(),
				meta.ServiceVersion: meta.GetServiceVersion(),
			}
			if carrier, ok := req.(MetaCarrier); ok {
				for k, v := range carrier.Meta() {
					data[k] = v
				}
			}

			return next.Handle(meta.InjectMetaToContext(ctx, data), req)
		})
	}
}

// getTraceID keeps an existing trace id, then tries the current span, and
// falls back to a generated one.
func getTraceID(ctx context.Context) string {
	if id := meta.Find(ctx, meta.TraceID); id != "" {
		return id
	}

	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if traceID.IsValid() {
		return traceID.String()
	}

	return fmt.Sprintf("man-%s", uuid.New().String())
}

// newLoggingStage emits exactly one entry before the handler runs and one
// after it returns. Panics below this stage are converted to errors.
func newLoggingStage(log logger.Logger) WrapFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (any, error) {
			l := log.WithContext(ctx).With("request_type", fmt.Sprintf("%T", req))

			l.With("request", mask.StructToOrdMap(req)).Info("dispatching request")

			start := time.Now()
			result, err := handleWithRecovery(ctx, next, req)
			l = l.With("execution_time", time.Since(start).String())

			if err != nil {
				l = l.With("error", logger.ErrObject(err))
				if errx.GetType(err) == errx.T_Internal {
					l.Error("request failed")
				} else {
					l.Warn("request failed")
				}
				return result, err
			}

			l.With("result", summarize(result)).Info("request handled")
			return result, nil
		})
	}
}

func handleWithRecovery(ctx context.Context, next Handler, req Request) (_ any, err error) {
	defer func() {
		if r := recover(); r != nil {
			stackTrace := make([]byte, stackTraceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			err = errx.New("panic recovered while handling request",
				errx.WithCode(CodePanicRecovered),
				errx.WithType(errx.T_Internal),
				errx.WithDetails(errx.D{
					"stack_trace":  string(stackTrace),
					"panic_values": fmt.Sprintf("%v", r),
				}),
			)
		}
	}()

	return next.Handle(ctx, req)
}

// summarize renders a handler result for the exit log entry.
func summarize(result any) any {
	if result == nil {
		return nil
	}
	if s, err := cast.ToStringE(result); err == nil {
		return s
	}
	return mask.StructToOrdMap(result)
}
