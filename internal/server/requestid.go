package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID echoes a caller's X-Request-ID, or issues a random one, and
// tags the active span and the request context with it.
func RequestID(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		id := hr.Header.Get(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		rw.Header().Set(HeaderRequestID, id)
		trace.SpanFromContext(hr.Context()).SetAttributes(attribute.String("request.id", id))

		ctx := observability.ContextWithRequestID(hr.Context(), id)
		logger.DebugContext(ctx, "request", "method", hr.Method, "path", hr.URL.Path)

		next.ServeHTTP(rw, hr.WithContext(ctx))
	})
}
