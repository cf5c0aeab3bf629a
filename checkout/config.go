package checkout

import (
	"time"

	"github.com/rise-and-shine/paycheckout/logger"
	"github.com/rise-and-shine/paycheckout/tracing"
)

// Config is the configuration of the checkout module, usually loaded with cfgloader.
type Config struct {
	ServiceName    string `yaml:"service_name"    validate:"required"`
	ServiceVersion string `yaml:"service_version" default:"dev"`

	Logger  logger.Config  `yaml:"logger"`
	Tracing tracing.Config `yaml:"tracing"`

	// Metrics enables the go-metrics timers and counters of the bus and the dispatcher.
	Metrics bool `yaml:"metrics" default:"true"`

	// HandlerTimeout bounds every handler invocation. Zero, the default, leaves
	// deadlines to the handlers' own clients.
	HandlerTimeout time.Duration `yaml:"handler_timeout"`
}
