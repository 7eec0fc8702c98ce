package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID   = "trace_id"
	attrSpanID    = "span_id"
	attrRequestID = "request_id"
	attrService   = "service"
	attrEnv       = "env"
	attrMode      = "mode"
)

type requestIDKey struct{}

// ContextWithRequestID returns ctx carrying the HTTP request id so log
// records written under it can be correlated with the response header.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by [ContextWithRequestID].
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)

	return id, ok && id != ""
}

// TracingHandler stamps records with the active span and request id found
// in the context. Service metadata is attached once, before any group.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. env is omitted when empty.
func NewTracingHandler(inner slog.Handler, service, env string, mode AppMode) *TracingHandler {
	meta := []slog.Attr{slog.String(attrService, service), slog.String(attrMode, string(mode))}
	if env != "" {
		meta = append(meta, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(meta)}
}

func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if id, ok := RequestIDFromContext(ctx); ok {
		record.AddAttrs(slog.String(attrRequestID, id))
	}

	handleErr := th.inner.Handle(ctx, record)
	if handleErr != nil {
		return fmt.Errorf("tracing handler: %w", handleErr)
	}

	return nil
}

func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
