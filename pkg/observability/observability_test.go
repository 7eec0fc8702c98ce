package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return red, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for i := range rm.ScopeMetrics {
		for j := range rm.ScopeMetrics[i].Metrics {
			if rm.ScopeMetrics[i].Metrics[j].Name == name {
				return &rm.ScopeMetrics[i].Metrics[j]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "season", observability.StatusOK, 20*time.Millisecond)
	red.RecordRequest(ctx, "season", observability.StatusError, time.Second)

	rm := collect(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "seasonality.requests.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "seasonality.errors.total")))
	assert.NotNil(t, findMetric(rm, "seasonality.request.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	ctx := context.Background()

	done := red.TrackInflight(ctx, "compare")
	assert.Equal(t, int64(1), sumValue(t, findMetric(collect(t, reader), "seasonality.inflight.requests")))

	done()
	assert.Equal(t, int64(0), sumValue(t, findMetric(collect(t, reader), "seasonality.inflight.requests")))
}

func TestREDMetrics_RecordTable(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)

	red.RecordTable(context.Background(), "user-engagement", 120, 3, 50*time.Millisecond)

	rm := collect(t, reader)

	assert.Equal(t, int64(120), sumValue(t, findMetric(rm, "seasonality.source.rows.loaded")))
	assert.Equal(t, int64(3), sumValue(t, findMetric(rm, "seasonality.source.rows.dropped")))
	assert.NotNil(t, findMetric(rm, "seasonality.source.fetch.duration.seconds"))
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "seasonality", "staging", observability.ModeServe))

	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WithGroup("load").InfoContext(ctx, "table loaded", "rows", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "seasonality", record["service"])
	assert.Equal(t, "staging", record["env"])
	assert.Equal(t, "serve", record["mode"])

	group, ok := record["load"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", group["trace_id"])
	assert.Equal(t, "b7ad6b7169203331", group["span_id"])
}

func TestTracingHandler_RequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(slog.NewJSONHandler(&buf, nil), "seasonality", "", observability.ModeServe))

	ctx := observability.ContextWithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "comparison served")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-42", record["request_id"])

	id, ok := observability.RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-42", id)

	_, ok = observability.RequestIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestTracingHandler_NoSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewTracingHandler(inner, "seasonality", "", observability.ModeCLI))

	logger.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "env")
	assert.Equal(t, "cli", record["mode"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := observability.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = observability.ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = observability.ParseLevel("loud")
	assert.Error(t, err)
}

func TestHTTPMiddleware_RecordsSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	observability.HTTPMiddleware(tp.Tracer("test"), handler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/season", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/season", spans[0].Name)
	assert.Equal(t, "Error", spans[0].Status.Code.String())
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	attrs := make(map[attribute.Key]attribute.Value, len(spans[0].Attributes))
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, int64(http.StatusBadGateway), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, int64(0), attrs["http.response.body.size"].AsInt64())
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)

	ok := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(rw, "fine")
	})
	failing := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	})

	observability.MetricsMiddleware(red, "season", ok).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	observability.MetricsMiddleware(red, "season", failing).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rm := collect(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "seasonality.requests.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "seasonality.errors.total")))
	assert.Equal(t, int64(0), sumValue(t, findMetric(rm, "seasonality.inflight.requests")))
}

func TestAttributeFilter(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), nil)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(filter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	_, span := tp.Tracer("test").Start(context.Background(), "load")
	span.SetAttributes(
		attribute.String("source.mode", "sheet"),
		attribute.String("user.email", "a@b.c"),
		attribute.String("request.body", "{}"),
		attribute.Int("random", 1),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	keys := make([]string, 0, len(spans[0].Attributes))
	for _, kv := range spans[0].Attributes {
		keys = append(keys, string(kv.Key))
	}

	assert.Equal(t, []string{"source.mode"}, keys)
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.Handler
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{
			name:       "liveness",
			handler:    observability.HealthHandler(),
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "ready without checks",
			handler:    observability.ReadyHandler(),
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "first failing check wins",
			handler: observability.ReadyHandler(
				func(context.Context) error { return nil },
				func(context.Context) error { return errors.New("data not loaded") },
				func(context.Context) error { return errors.New("unreached") },
			),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unavailable",
			wantReason: "data not loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, tt.wantReason, body["reason"])
		})
	}
}

func TestInit_NoopByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogOutput = &buf

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	assert.Nil(t, providers.MetricsHandler)

	providers.Logger.Info("started")
	assert.Contains(t, buf.String(), `"service":"seasonality"`)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_PrometheusEndpoint(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Prometheus = true
	cfg.LogOutput = io.Discard

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })
	require.NotNil(t, providers.MetricsHandler)

	red, err := observability.NewREDMetrics(providers.Meter)
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "season", observability.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "seasonality")
	assert.Contains(t, body, "requests")
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t,
		map[string]string{"api-key": "abc", "team": "growth"},
		observability.ParseOTLPHeaders("api-key=abc, team = growth"),
	)
}
