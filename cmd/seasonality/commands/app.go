// Package commands implements the seasonality CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/internal/config"
	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/source"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
	"github.com/Sumatoshi-tech/seasonality/pkg/version"
)

// ErrInvalidSelection wraps selection flags that fail validation.
var ErrInvalidSelection = errors.New("invalid selection")

// RootOptions are the persistent flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// app is the wired runtime of one command invocation.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	red       *observability.REDMetrics
	calendar  *season.Calendar
	logger    *slog.Logger
}

func newApp(root *RootOptions, mode observability.AppMode) (*app, error) {
	cfg, err := config.LoadConfig(root.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg, err := observabilityConfig(cfg, mode, root.Verbose)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cal, err := cfg.Calendar.Calendar()
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}

	return &app{
		cfg:       cfg,
		providers: providers,
		red:       red,
		calendar:  cal,
		logger:    providers.Logger,
	}, nil
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode, verbose bool) (observability.Config, error) {
	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	if verbose {
		level = slog.LevelDebug
	}

	headers := cfg.Telemetry.OTLPHeaders
	if len(headers) == 0 {
		headers = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = headers
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = mode == observability.ModeServe
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON || mode == observability.ModeMCP
	obsCfg.DebugTrace = verbose

	return obsCfg, nil
}

func (a *app) close() {
	shutdownErr := a.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		a.logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

func (a *app) source() (source.Source, error) {
	src, err := source.New(a.cfg.Source, a.logger)
	if err != nil {
		return nil, fmt.Errorf("build source: %w", err)
	}

	return src, nil
}

func (a *app) load(ctx context.Context) (*loader.Bundle, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}

	return loader.Load(ctx, src, loader.Options{
		Logger:  a.logger,
		Tracer:  a.providers.Tracer,
		Metrics: a.red,
	})
}

func (a *app) layout(width float64) report.Options {
	return report.OptionsFromConfig(a.cfg.Layout).WithWidth(width)
}

// selectionFlags are the chart filters accepted by render, export and
// inspect.
type selectionFlags struct {
	patch store.Patch
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.StringVar(&s.patch.Country, "country", "", "ISO-3 country code (default USA)")
	fs.StringVar(&s.patch.System, "system", "", "operating system: IOS or ANDROID")
	fs.StringVar(&s.patch.Category, "category", "", "gaming or consumer")
	fs.StringVar(&s.patch.Vertical, "vertical", "", "vertical within the category (default all)")
	fs.StringVar(&s.patch.Season, "season", "", "past or current comparison season")
	fs.StringVar(&s.patch.Period, "period", "", "season period id (default all)")
	fs.StringVar(&s.patch.UserMetric, "user-metric", "", "indexed user-engagement metric")
	fs.StringVar(&s.patch.AdvertiserMetric, "advertiser-metric", "", "indexed advertiser metric")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *selectionFlags) state() (store.State, error) {
	st, err := s.patch.Apply(store.DefaultState())
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	err = validate.Struct(st.Selection)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	return st, nil
}
