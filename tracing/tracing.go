// Package tracing bootstraps the OpenTelemetry tracer provider used by the
// dispatch pipeline and exports spans over OTLP gRPC.
package tracing

import (
	"context"
	"net"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(ctx context.Context) error

// NewProvider builds a tracer provider exporting to the configured collector.
// When cfg.Disable is set a no-op provider is returned.
func NewProvider(
	ctx context.Context,
	cfg Config,
	serviceName, serviceVersion string,
) (trace.TracerProvider, ShutdownFunc, error) {
	if cfg.Disable {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	exporterAddr := net.JoinHostPort(cfg.ExporterHost, cast.ToString(cfg.ExporterPort))

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(exporterAddr),
		otlptracegrpc.WithReconnectionPeriod(reconnectionPeriod),
		otlptracegrpc.WithTimeout(clientTimeout),
	)

	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, nil, errx.Wrap(err, errx.WithDetails(errx.D{"exporter_addr": exporterAddr}))
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter,
		sdktrace.WithMaxQueueSize(maxQueueSize),
		sdktrace.WithBatchTimeout(batchTimeout),
		sdktrace.WithMaxExportBatchSize(maxExportBatchSize),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			resourceAttributes(cfg, serviceName, serviceVersion)...,
		)),
	)

	return tp, func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return errx.Wrap(err)
		}
		return nil
	}, nil
}

// InitGlobalTracer builds a provider with NewProvider and installs it, along
// with W3C trace context and baggage propagation, as the otel global.
func InitGlobalTracer(cfg Config, serviceName, serviceVersion string) (ShutdownFunc, error) {
	tp, shutdown, err := NewProvider(context.Background(), cfg, serviceName, serviceVersion)
	if err != nil {
		return nil, err
	}

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	otel.SetTracerProvider(tp)

	return shutdown, nil
}

func resourceAttributes(cfg Config, serviceName, serviceVersion string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(cfg.Tags)+2)
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	return append(attrs,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	)
}
