package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "seasonality"

// Providers holds the initialized observability providers.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// MetricsHandler serves the Prometheus scrape endpoint. Nil unless
	// Config.Prometheus is set.
	MetricsHandler http.Handler

	// Shutdown flushes pending telemetry. Must be called before exit.
	Shutdown func(ctx context.Context) error
}

// Init sets up tracing, metrics and the structured logger. With no OTLP
// endpoint and Prometheus off every provider is a no-op and only the logger
// does real work.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttrs(cfg)...))
	if err != nil {
		return Providers{}, fmt.Errorf("build otel resource: %w", err)
	}

	var closers []func(context.Context) error

	tp, err := tracerProvider(ctx, cfg, res, &closers)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer provider: %w", err)
	}

	mp, scrape, err := meterProvider(ctx, cfg, res, &closers)
	if err != nil {
		return Providers{}, errors.Join(
			fmt.Errorf("build meter provider: %w", err),
			closeAll(ctx, closers),
		)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultShutdownTimeoutSec * time.Second
	}

	return Providers{
		Tracer:         tp.Tracer(instrumentationName),
		Meter:          mp.Meter(instrumentationName),
		Logger:         newLogger(cfg),
		MetricsHandler: scrape,
		Shutdown: func(shutdownCtx context.Context) error {
			deadlineCtx, cancel := context.WithTimeout(shutdownCtx, timeout)
			defer cancel()

			return closeAll(deadlineCtx, closers)
		},
	}, nil
}

func resourceAttrs(cfg Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("seasonality.mode", string(cfg.Mode)))
	}

	return attrs
}

func closeAll(ctx context.Context, closers []func(context.Context) error) error {
	var errs []error

	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i](ctx))
	}

	return errors.Join(errs...)
}

func tracerProvider(
	ctx context.Context, cfg Config, res *resource.Resource, closers *[]func(context.Context) error,
) (trace.TracerProvider, error) {
	if cfg.OTLPEndpoint == "" {
		return nooptrace.NewTracerProvider(), nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	var dropLog *slog.Logger
	if cfg.DebugTrace {
		dropLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	sampler := sdktrace.ParentBased(sdktrace.AlwaysSample())

	switch {
	case cfg.DebugTrace:
		sampler = sdktrace.AlwaysSample()
	case cfg.SampleRatio > 0:
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewAttributeFilter(sdktrace.NewBatchSpanProcessor(exporter), dropLog)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	*closers = append(*closers, tp.Shutdown)

	return tp, nil
}

func meterProvider(
	ctx context.Context, cfg Config, res *resource.Resource, closers *[]func(context.Context) error,
) (metric.MeterProvider, http.Handler, error) {
	if cfg.OTLPEndpoint == "" && !cfg.Prometheus {
		return noopmetric.NewMeterProvider(), nil, nil
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	var scrape http.Handler

	if cfg.Prometheus {
		reader, handler, err := newPrometheusReader()
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, sdkmetric.WithReader(reader))
		scrape = handler
	}

	if cfg.OTLPEndpoint != "" {
		expOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			expOpts = append(expOpts, otlpmetricgrpc.WithInsecure())
		}

		if len(cfg.OTLPHeaders) > 0 {
			expOpts = append(expOpts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
		}

		exporter, err := otlpmetricgrpc.New(ctx, expOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create metric exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	*closers = append(*closers, mp.Shutdown)

	return mp, scrape, nil
}

func newLogger(cfg Config) *slog.Logger {
	var out io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		out = cfg.LogOutput
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, opts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}

// ParseOTLPHeaders reads "key=value,key=value". Malformed pairs are skipped;
// nil is returned when nothing usable remains.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for pair := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return headers
}
