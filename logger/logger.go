// Package logger provides a structured logging interface for applications.
//
// It wraps the zap logging library to provide a simpler API while keeping
// zap's structured fields. Log entries can be enriched with dispatch metadata
// carried in a context (see package meta).
package logger

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/paycheckout/meta"
	"go.uber.org/zap"
)

// Logger defines the standard logging interface used across the module.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg any)
	// Info logs a message at info level.
	Info(msg any)
	// Warn logs a message at warn level.
	Warn(msg any)
	// Error logs a message at error level.
	Error(msg any)

	// Debugf logs a formatted message at debug level.
	Debugf(format string, args ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)

	// Warnx logs an errx.ErrorX with its code, type, fields and details at warn level.
	Warnx(err error)
	// Errorx logs an errx.ErrorX with its code, type, fields and details at error level.
	Errorx(err error)

	// With creates a new logger with the given key-value pairs.
	With(keysAndValues ...any) Logger
	// WithContext creates a logger enriched with metadata from the context.
	WithContext(ctx context.Context) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// logger implements the Logger interface using zap's SugaredLogger.
type logger struct {
	*zap.SugaredLogger
}

// New creates a new Logger instance with the provided configuration.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return Nop(), nil
	}

	zapConfig, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding == EncodingPretty {
		return &logger{newPrettyLogger(zapConfig).Sugar()}, nil
	}

	jsonLogger, err := zapConfig.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &logger{jsonLogger.Sugar()}, nil
}

// FromZap adapts an existing zap logger, e.g. one built on a zaptest observer core.
func FromZap(l *zap.Logger) Logger {
	return &logger{l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

// ErrObject converts an error to a structured map suitable for the "error" log field.
func ErrObject(err error) map[string]any {
	e := errx.AsErrorX(err)

	return map[string]any{
		"code":    e.Code(),
		"message": e.Error(),
		"type":    e.Type().String(),
		"trace":   e.Trace(),
		"fields":  e.Fields(),
		"details": e.Details(),
	}
}

func (l *logger) Warnx(err error) {
	var e errx.ErrorX
	if errors.As(err, &e) {
		l.withErrorX(e).Warn(err.Error())
		return
	}
	l.Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	var e errx.ErrorX
	if errors.As(err, &e) {
		l.withErrorX(e).Error(err.Error())
		return
	}
	l.Error(err.Error())
}

func (l *logger) withErrorX(e errx.ErrorX) Logger {
	return l.With(
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_fields", e.Fields(),
		"error_details", e.Details(),
	)
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.With(keysAndValues...),
	}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var withFields []any
	for k, v := range meta.ExtractMetaFromContext(ctx) {
		// ContextKey must be converted to string to avoid zap's "non-string keys" error
		withFields = append(withFields, string(k), v)
	}

	if len(withFields) > 0 {
		return l.With(withFields...)
	}

	return l
}

func (l *logger) Named(name string) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.Named(name),
	}
}

func (l *logger) Debug(msg any) {
	l.SugaredLogger.Debug(msg)
}

func (l *logger) Info(msg any) {
	l.SugaredLogger.Info(msg)
}

func (l *logger) Warn(msg any) {
	l.SugaredLogger.Warn(msg)
}

func (l *logger) Error(msg any) {
	l.SugaredLogger.Error(msg)
}
