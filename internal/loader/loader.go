// Package loader fetches and normalizes every report tab concurrently and
// hands back a single immutable Bundle.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/seasonality/internal/source"
	"github.com/Sumatoshi-tech/seasonality/pkg/csvparse"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// ErrNotLoaded is returned by Holder.Ready before the first Store.
var ErrNotLoaded = errors.New("data not loaded")

// TableWarning is a normalization warning tagged with its tab.
type TableWarning struct {
	Tab source.Tab `json:"tab"`
	dataset.Warning
}

// Bundle is the loaded report data.
type Bundle struct {
	User       *dataset.Dataset      `json:"user"`
	Advertiser *dataset.Dataset      `json:"advertiser"`
	Inclusion  *dataset.InclusionSet `json:"-"`
	// Latest is nil when the latest-update tab was skipped or unusable.
	Latest   *season.CalendarDate `json:"latest,omitempty"`
	Warnings []TableWarning       `json:"warnings,omitempty"`
	LoadedAt time.Time            `json:"loadedAt"`
}

// Options controls Load. The zero value is usable.
type Options struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics
	// SkipLatest leaves Bundle.Latest nil without fetching the tab.
	SkipLatest bool
}

type tableResult struct {
	rows []csvparse.RawRow
	took time.Duration
}

// Load fetches the user-engagement, advertiser-KPI and vertical-inclusion
// tabs in parallel and returns once all of them are normalized. Any failed
// required tab fails the load. A failing latest-update tab only logs.
func Load(ctx context.Context, src source.Source, opts Options) (*Bundle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("loader")
	}

	ctx, span := tracer.Start(ctx, "seasonality.load")
	defer span.End()

	required := []source.Tab{source.TabUserEngagement, source.TabAdvertiserKPIs, source.TabVerticalInclusion}
	results := make([]tableResult, len(required))

	g, gctx := errgroup.WithContext(ctx)

	for i, tab := range required {
		g.Go(func() error {
			start := time.Now()

			rows, err := fetchTable(gctx, src, tab)
			if err != nil {
				return err
			}

			results[i] = tableResult{rows: rows, took: time.Since(start)}

			return nil
		})
	}

	var latestRows []csvparse.RawRow

	if !opts.SkipLatest {
		g.Go(func() error {
			rows, err := fetchTable(gctx, src, source.TabLatestUpdate)
			if err != nil {
				logger.WarnContext(gctx, "latest update unavailable", "error", err)

				return nil
			}

			latestRows = rows

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)

		return nil, err
	}

	b := &Bundle{LoadedAt: time.Now()}

	user, userWarnings := dataset.Normalize(results[0].rows, dataset.UserEngagementSchema)
	adv, advWarnings := dataset.Normalize(results[1].rows, dataset.AdvertiserKPISchema)
	inclusion, incWarnings := dataset.NewInclusionSet(results[2].rows)

	b.User, b.Advertiser, b.Inclusion = user, adv, inclusion

	tables := []struct {
		tab      source.Tab
		result   tableResult
		kept     int
		warnings []dataset.Warning
	}{
		{source.TabUserEngagement, results[0], user.Len(), userWarnings},
		{source.TabAdvertiserKPIs, results[1], adv.Len(), advWarnings},
		{source.TabVerticalInclusion, results[2], inclusion.Len(), incWarnings},
	}

	for _, t := range tables {
		for _, w := range t.warnings {
			logger.WarnContext(ctx, "row dropped",
				"tab", string(t.tab), "line", w.Line, "column", w.Column, "reason", w.Reason)

			b.Warnings = append(b.Warnings, TableWarning{Tab: t.tab, Warning: w})
		}

		if opts.Metrics != nil {
			dropped := max(len(t.result.rows)-t.kept, 0)
			opts.Metrics.RecordTable(ctx, string(t.tab), t.kept, dropped, t.result.took)
		}
	}

	if latestRows != nil {
		latest, err := dataset.LatestUpdate(latestRows)
		if err != nil {
			logger.WarnContext(ctx, "latest update unreadable", "error", err)
		} else {
			b.Latest = &latest
		}
	}

	span.SetAttributes(
		attribute.Int("seasonality.rows.user", user.Len()),
		attribute.Int("seasonality.rows.advertiser", adv.Len()),
		attribute.Int("seasonality.warnings", len(b.Warnings)),
	)

	logger.InfoContext(ctx, "data loaded",
		"user_rows", user.Len(), "advertiser_rows", adv.Len(),
		"inclusions", inclusion.Len(), "warnings", len(b.Warnings))

	return b, nil
}

func fetchTable(ctx context.Context, src source.Source, tab source.Tab) ([]csvparse.RawRow, error) {
	text, err := src.Fetch(ctx, tab)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", tab, err)
	}

	rows, err := csvparse.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", tab, err)
	}

	return rows, nil
}

// Holder publishes the current Bundle to concurrent readers.
type Holder struct {
	bundle atomic.Pointer[Bundle]
}

// Store replaces the current bundle.
func (h *Holder) Store(b *Bundle) { h.bundle.Store(b) }

// Load returns the current bundle or nil.
func (h *Holder) Load() *Bundle { return h.bundle.Load() }

// Ready is an observability.ReadyCheck reporting ErrNotLoaded until a
// bundle is stored.
func (h *Holder) Ready(context.Context) error {
	if h.bundle.Load() == nil {
		return ErrNotLoaded
	}

	return nil
}
