// Package source fetches the raw CSV text of the published report tabs,
// either from the live spreadsheet export, a static mirror or local
// snapshot files.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Sumatoshi-tech/seasonality/internal/config"
)

// Tab names a dataset published as one spreadsheet tab.
type Tab string

// Published tabs.
const (
	TabUserEngagement    Tab = "user-engagement"
	TabAdvertiserKPIs    Tab = "advertiser-kpis"
	TabVerticalInclusion Tab = "vertical-inclusion"
	TabLatestUpdate      Tab = "latest-update"
)

// AllTabs lists every tab in load order.
var AllTabs = []Tab{TabUserEngagement, TabAdvertiserKPIs, TabVerticalInclusion, TabLatestUpdate}

var (
	// ErrUnknownTab is returned when a tab has no gid mapping.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrSourceUnavailable is matched by every UnavailableError.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected http status")
	// ErrUnsupportedMode is returned by New for an unknown source mode.
	ErrUnsupportedMode = errors.New("unsupported source mode")
)

// Source returns the CSV text of a tab.
type Source interface {
	Fetch(ctx context.Context, tab Tab) (string, error)
}

// Tabs maps tabs to their spreadsheet gid.
type Tabs map[Tab]string

// GID returns the gid of tab or ErrUnknownTab.
func (t Tabs) GID(tab Tab) (string, error) {
	gid, ok := t[tab]
	if !ok || gid == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}

	return gid, nil
}

// Sorted returns the mapped tabs in AllTabs order.
func (t Tabs) Sorted() []Tab {
	out := make([]Tab, 0, len(t))

	for _, tab := range AllTabs {
		if _, ok := t[tab]; ok {
			out = append(out, tab)
		}
	}

	for tab := range t {
		if !slices.Contains(out, tab) {
			out = append(out, tab)
		}
	}

	return out
}

// TabsFromConfig builds the gid table from configuration.
func TabsFromConfig(cfg config.TabsConfig) Tabs {
	return Tabs{
		TabUserEngagement:    cfg.UserEngagement,
		TabAdvertiserKPIs:    cfg.AdvertiserKPIs,
		TabVerticalInclusion: cfg.VerticalInclusion,
		TabLatestUpdate:      cfg.LatestUpdate,
	}
}

// UnavailableError reports a tab that could not be fetched after retries.
type UnavailableError struct {
	Tab      Tab
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("tab %s unavailable after %d attempt(s): %v", e.Tab, e.Attempts, e.Err)
}

// Is matches ErrSourceUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// New builds the source described by cfg, wrapped with retries for the
// network modes.
func New(cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	tabs := TabsFromConfig(cfg.Tabs)
	client := &http.Client{Timeout: cfg.Timeout}

	var src Source

	switch cfg.Mode {
	case config.SourceSheet:
		src = &SheetSource{DocumentID: cfg.DocumentID, Tabs: tabs, Client: client}
	case config.SourceStatic:
		src = &StaticSource{BaseURL: cfg.BaseURL, Tabs: tabs, Client: client}
	case config.SourceFile:
		return &FileSource{Dir: cfg.Dir, Tabs: tabs}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, cfg.Mode)
	}

	return &Retrying{
		Source:    src,
		Attempts:  cfg.Retry.Attempts,
		BaseDelay: cfg.Retry.BaseDelay,
		MaxDelay:  cfg.Retry.MaxDelay,
		Logger:    logger,
	}, nil
}

// Memory serves tabs from an in-process map.
type Memory map[Tab]string

// Fetch implements Source.
func (m Memory) Fetch(ctx context.Context, tab Tab) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, ok := m[tab]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}

	return text, nil
}
