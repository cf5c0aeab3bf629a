package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	clientTimeout      = 30 * time.Second
	maxQueueSize       = 10000
	batchTimeout       = 5 * time.Second
	maxExportBatchSize = 1024
)

// Config holds the tracing settings of the checkout module.
type Config struct {
	// Disable turns the provider into a no-op. No spans are collected or exported.
	Disable bool `yaml:"disable" default:"false"`

	// SampleRate is the fraction of root traces sampled, between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" default:"1" validate:"gte=0,lte=1"`

	// ExporterHost is the host of the OTLP gRPC collector.
	ExporterHost string `yaml:"exporter_host" validate:"required_if=Disable false"`

	// ExporterPort is the port of the OTLP gRPC collector.
	ExporterPort int `yaml:"exporter_port" default:"4317"`

	// Tags are added as resource attributes to all spans.
	Tags map[string]string `yaml:"tags"`
}
