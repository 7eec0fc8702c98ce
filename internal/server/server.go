// Package server exposes the report views over HTTP as JSON, HTML and SVG,
// next to health, readiness and Prometheus endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/seasonality/internal/config"
	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/plot"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const readHeaderTimeout = 5 * time.Second

// Options wires a Server. Holder and Calendar are required.
type Options struct {
	Config   config.ServerConfig
	Holder   *loader.Holder
	Calendar *season.Calendar
	Layout   report.Options
	Theme    plot.Theme
	// Store is the shared selection; a fresh default store is used when nil.
	Store *store.Store

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// Server serves the report views.
type Server struct {
	opts     Options
	store    *store.Store
	validate *validator.Validate
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New builds a server.
func New(opts Options) *Server {
	s := &Server{
		opts:     opts,
		store:    opts.Store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   opts.Logger,
		tracer:   opts.Tracer,
	}

	if s.store == nil {
		s.store = store.New(store.DefaultState())
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer("seasonality")
	}

	if s.opts.Layout.Width <= 0 {
		s.opts.Layout = report.DefaultOptions(report.DefaultWidth)
	}

	return s
}

// Store returns the shared selection store.
func (s *Server) Store() *store.Store { return s.store }

// Handler returns the routed handler with tracing, request ids and RED
// metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	routes := []struct {
		pattern string
		op      string
		handler http.HandlerFunc
	}{
		{"GET /api/comparison", "comparison", s.handleComparison},
		{"GET /api/season", "season", s.handleSeason},
		{"GET /api/advertiser", "advertiser", s.handleAdvertiser},
		{"GET /api/holidays", "holidays", s.handleHolidays},
		{"GET /api/meta", "meta", s.handleMeta},
		{"GET /api/state", "state.get", s.handleGetState},
		{"POST /api/state", "state.set", s.handleSetState},
		{"GET /report.html", "report.html", s.handleReportHTML},
		{"GET /report.svg", "report.svg", s.handleReportSVG},
	}

	for _, r := range routes {
		var h http.Handler = r.handler
		if s.opts.Metrics != nil {
			h = observability.MetricsMiddleware(s.opts.Metrics, r.op, h)
		}

		mux.Handle(r.pattern, h)
	}

	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(s.opts.Holder.Ready))

	if s.opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}

	return observability.HTTPMiddleware(s.tracer, RequestID(s.logger, mux))
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Config.Addr(), err)
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	cfg := s.opts.Config

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.InfoContext(ctx, "server listening", "addr", ln.Addr().String())

	select {
	case serveErr := <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", serveErr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	s.logger.InfoContext(ctx, "server shutting down")

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
