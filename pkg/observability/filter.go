package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Span attribute keys with these prefixes are exported.
var allowedPrefixes = []string{
	"seasonality.",
	"error",
	"http.",
	"mcp.",
	"source.",
	"table.",
	"selection.",
	"request.id",
}

// Keys with these prefixes are stripped even if allowed above.
var blockedPrefixes = []string{
	"user.",
	"request.body",
	"response.body",
}

type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate so that ended spans only expose
// allow-listed attributes. A non-nil logger receives a warning for each
// stripped key.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	shutdownErr := f.delegate.Shutdown(ctx)
	if shutdownErr != nil {
		return fmt.Errorf("attribute filter shutdown: %w", shutdownErr)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	flushErr := f.delegate.ForceFlush(ctx)
	if flushErr != nil {
		return fmt.Errorf("attribute filter flush: %w", flushErr)
	}

	return nil
}

func (f *attributeFilter) allowed(key string) bool {
	for _, prefix := range blockedPrefixes {
		if strings.HasPrefix(key, prefix) {
			f.warn(key)

			return false
		}
	}

	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	f.warn(key)

	return false
}

func (f *attributeFilter) warn(key string) {
	if f.logger != nil {
		f.logger.Warn("span attribute dropped", "key", key)
	}
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	orig := s.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(orig))

	for _, kv := range orig {
		if s.filter.allowed(string(kv.Key)) {
			kept = append(kept, kv)
		}
	}

	return kept
}
