// Package meta provides functionality for managing dispatch metadata through context.
package meta

import (
	"context"

	"github.com/code19m/errx"
)

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID represents a unique identifier for correlating log entries of a single dispatch.
	TraceID ContextKey = "trace_id"

	// RequestName identifies the command or query being dispatched.
	RequestName ContextKey = "request_name"

	// EventName identifies the domain event being published.
	EventName ContextKey = "event_name"

	// PayPalOrderID carries the PayPal order identifier a dispatch is working on.
	PayPalOrderID ContextKey = "paypal_order_id"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"
)

const codeMetaNotFound = "META_NOT_FOUND"

//nolint:gochecknoglobals // fixed extraction order keeps log fields stable
var allKeys = []ContextKey{
	TraceID,
	RequestName,
	EventName,
	PayPalOrderID,
	ServiceName,
	ServiceVersion,
}

// InjectMetaToContext adds metadata from the provided map to the context.
// It only adds values that are not empty strings and returns a new context
// with the added values.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext extracts all metadata from the provided context.
// Only non-empty string values are included in the returned map.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the metadata value stored under key, or an empty string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// ShouldGetMeta returns the metadata value stored under key or an error
// when the key is absent or holds a non-string value.
func ShouldGetMeta(ctx context.Context, key ContextKey) (string, error) {
	raw := ctx.Value(key)
	if raw == nil {
		return "", errx.New("meta key not found", errx.WithCode(codeMetaNotFound),
			errx.WithDetails(errx.D{"key": string(key)}))
	}

	v, ok := raw.(string)
	if !ok {
		return "", errx.New("meta value type mismatch", errx.WithCode(codeMetaNotFound),
			errx.WithDetails(errx.D{"key": string(key)}))
	}
	return v, nil
}
