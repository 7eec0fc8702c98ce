// Package mcp serves the seasonality views as Model Context Protocol tools
// over stdio, so assistants can query comparisons and holiday markers.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const (
	serverName = "seasonality"
	toolCount  = 3

	spanPrefix     = "mcp."
	traceIDMetaKey = "trace_id"
)

// ServerDeps wires a Server. Holder and Calendar are required; the rest
// may be nil.
type ServerDeps struct {
	Holder   *loader.Holder
	Calendar *season.Calendar
	// Layout sizes the views; zero uses the default width.
	Layout  report.Options
	Version string

	Logger  *slog.Logger
	Metrics *observability.REDMetrics
	Tracer  trace.Tracer
}

// Server is an MCP server with the seasonality tools registered.
type Server struct {
	inner *mcpsdk.Server
	deps  ServerDeps

	mu    sync.RWMutex
	tools []string
}

// NewServer registers every tool.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	if deps.Layout.Width <= 0 {
		deps.Layout = report.DefaultOptions(report.DefaultWidth)
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	srv := &Server{
		inner: mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version}, opts),
		deps:  deps,
		tools: make([]string, 0, toolCount),
	}

	addTool(srv, ToolNameCompare, compareToolDescription, srv.handleCompare)
	addTool(srv, ToolNameSeason, seasonToolDescription, srv.handleSeason)
	addTool(srv, ToolNameHolidays, holidaysToolDescription, srv.handleHolidays)

	return srv
}

func addTool[Input any](s *Server, name, description string, h handler[Input]) {
	wrapped := withMetrics(s.deps.Metrics, name, withTracing(s.deps.Tracer, name, h))

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{Name: name, Description: description},
		mcpsdk.ToolHandlerFor[Input, ToolOutput](wrapped))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// ListToolNames returns the registered tool names, sorted.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := slices.Clone(s.tools)
	slices.Sort(names)

	return names
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport is Run on an arbitrary transport.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

type handler[Input any] func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error)

// withTracing opens a span per call and appends the trace id to sampled
// results.
func withTracing[Input any](tracer trace.Tracer, name string, h handler[Input]) handler[Input] {
	if tracer == nil {
		return h
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, spanPrefix+name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", name)),
		)
		defer span.End()

		result, output, err := h(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID())})
		}

		return result, output, err
	}
}

func withMetrics[Input any](metrics *observability.REDMetrics, name string, h handler[Input]) handler[Input] {
	if metrics == nil {
		return h
	}

	op := spanPrefix + name

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		done := metrics.TrackInflight(ctx, op)
		defer done()

		result, output, err := h(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordRequest(ctx, op, status, time.Since(start))

		return result, output, err
	}
}

const (
	compareToolDescription = "Compare an indexed user-engagement metric with an indexed advertiser KPI " +
		"for one country, OS and vertical over a season period. " +
		"Returns weekly values, the shared value range and the weeks where the lines cross."

	seasonToolDescription = "Overlay the past and current holiday season week by week for the user " +
		"or advertiser metrics of one country, OS and vertical."

	holidaysToolDescription = "List the holiday markers of a season period with their dates and chart positions."
)
