package observability

import (
	"cmp"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const httpStatusServerError = 500

// statusWriter records the response status and body size for spans and
// RED metrics. A handler that never calls WriteHeader answered 200.
type statusWriter struct {
	http.ResponseWriter

	code  int
	bytes int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.code == 0 {
		sw.code = code
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if sw.code == 0 {
		sw.code = http.StatusOK
	}

	n, err := sw.ResponseWriter.Write(buf)
	sw.bytes += n

	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

func (sw *statusWriter) status() int {
	return cmp.Or(sw.code, http.StatusOK)
}

// HTTPMiddleware starts a server span named "METHOD /path" for every
// request, continuing any W3C trace context carried in the headers.
func HTTPMiddleware(tracer trace.Tracer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: rw}
		next.ServeHTTP(sw, hr.WithContext(ctx))

		code := sw.status()
		span.SetAttributes(
			semconv.HTTPResponseStatusCode(code),
			attribute.Int("http.response.body.size", sw.bytes),
		)

		if code >= httpStatusServerError {
			span.SetStatus(codes.Error, http.StatusText(code))
		}
	})
}

// MetricsMiddleware records RED metrics per request under op. Responses
// with a 5xx status count as errors.
func MetricsMiddleware(red *REDMetrics, op string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		done := red.TrackInflight(hr.Context(), op)
		defer done()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: rw}
		next.ServeHTTP(sw, hr)

		status := StatusOK
		if sw.status() >= httpStatusServerError {
			status = StatusError
		}

		red.RecordRequest(hr.Context(), op, status, time.Since(start))
	})
}
