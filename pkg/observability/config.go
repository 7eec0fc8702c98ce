// Package observability wires OpenTelemetry tracing and metrics and the
// structured logger used by every seasonality mode (CLI, MCP, server).
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is the one-shot command mode.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio server mode.
	ModeMCP AppMode = "mcp"
	// ModeServe is the HTTP server mode.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "seasonality"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment.
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are extra gRPC metadata headers for the exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP connection.
	OTLPInsecure bool

	// DebugTrace forces full sampling and logs blocked span attributes.
	DebugTrace bool

	// SampleRatio is the trace sampling ratio. Zero samples everything.
	SampleRatio float64

	// Prometheus attaches a scrape endpoint to the meter provider.
	Prometheus bool

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON log output.
	LogJSON bool

	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec bounds the flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(s)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}
