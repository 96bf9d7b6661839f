package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	localeKey
	dataKeyKey
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLocale stores the requested locale in ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// WithDataKey stores the data key being resolved in ctx.
func WithDataKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, dataKeyKey, key)
}

func stringExtractor(key ctxKey, attr string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			return slog.String(attr, v), true
		}
		return slog.Attr{}, false
	}
}

// RequestIDExtractor adds "request_id".
func RequestIDExtractor() ContextExtractor { return stringExtractor(requestIDKey, "request_id") }

// LocaleExtractor adds "locale".
func LocaleExtractor() ContextExtractor { return stringExtractor(localeKey, "locale") }

// DataKeyExtractor adds "data_key".
func DataKeyExtractor() ContextExtractor { return stringExtractor(dataKeyKey, "data_key") }

// DefaultExtractors returns the request id, locale and data key extractors.
func DefaultExtractors() []ContextExtractor {
	return []ContextExtractor{RequestIDExtractor(), LocaleExtractor(), DataKeyExtractor()}
}
