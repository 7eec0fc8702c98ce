package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/internal/config"
	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const (
	testPort      = 9090
	testThreshold = 40.0
	testAttempts  = 5
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seasonality.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.SourceSheet, cfg.Source.Mode)
	assert.Equal(t, config.DefaultDocumentID, cfg.Source.DocumentID)
	assert.Equal(t, config.DefaultTabUser, cfg.Source.Tabs.UserEngagement)
	assert.Equal(t, config.DefaultTabAdvertiser, cfg.Source.Tabs.AdvertiserKPIs)
	assert.Equal(t, config.DefaultTabInclusion, cfg.Source.Tabs.VerticalInclusion)
	assert.Equal(t, config.DefaultTabLatestUpdate, cfg.Source.Tabs.LatestUpdate)
	assert.Equal(t, config.DefaultRetryAttempts, cfg.Source.Retry.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Source.Retry.BaseDelay)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, config.ViewportAuto, cfg.Layout.Viewport)
	assert.Equal(t, config.LogFormatText, cfg.Logging.Format)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `source:
  mode: file
  dir: /var/lib/seasonality
  retry:
    attempts: 5
layout:
  width: 420
  threshold: 40
  exceptions:
    Diwali:
      x: 3
      y: 20
server:
  port: 9090
logging:
  format: json
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.SourceFile, cfg.Source.Mode)
	assert.Equal(t, "/var/lib/seasonality", cfg.Source.Dir)
	assert.Equal(t, testAttempts, cfg.Source.Retry.Attempts)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.InDelta(t, testThreshold, cfg.Layout.Threshold, 0)
	assert.Equal(t, annotate.Mobile, cfg.Layout.ViewportClass())

	opts := cfg.Layout.AnnotateOptions()
	assert.InDelta(t, testThreshold, opts.Threshold, 0)
	assert.Equal(t, annotate.Offset{X: 3, Y: 20}, opts.Exceptions["diwali"], "viper lower-cases map keys")
	assert.Contains(t, opts.Exceptions, "New Year")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "bad mode", content: "source:\n  mode: ftp\n", wantErr: config.ErrInvalidSourceMode},
		{name: "file without dir", content: "source:\n  mode: file\n", wantErr: config.ErrMissingDir},
		{name: "empty tab", content: "source:\n  tabs:\n    user_engagement: \"\"\n", wantErr: config.ErrMissingTab},
		{name: "negative retry", content: "source:\n  retry:\n    attempts: -1\n", wantErr: config.ErrInvalidRetry},
		{name: "bad port", content: "server:\n  port: 70000\n", wantErr: config.ErrInvalidPort},
		{name: "bad viewport", content: "layout:\n  viewport: watch\n", wantErr: config.ErrInvalidViewport},
		{name: "bad size", content: "layout:\n  width: 0\n", wantErr: config.ErrInvalidDimensions},
		{name: "bad format", content: "logging:\n  format: xml\n", wantErr: config.ErrInvalidLogFormat},
		{name: "bad ratio", content: "telemetry:\n  sample_ratio: 2\n", wantErr: config.ErrInvalidSampleRatio},
		{name: "anchor year mismatch", content: "calendar:\n  anchor_year: 2025\n", wantErr: config.ErrAnchorYearMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "source: [unterminated"))
	require.Error(t, err)
}

func TestDefault_Validates(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestAnnotateOptions_ZeroKeepsDefaults(t *testing.T) {
	t.Parallel()

	layout := config.LayoutConfig{Width: 1200, Viewport: config.ViewportAuto}
	opts := layout.AnnotateOptions()

	assert.Equal(t, annotate.Desktop, opts.Viewport)
	assert.InDelta(t, annotate.DefaultThreshold, opts.Threshold, 0)
	assert.Zero(t, opts.NarrowThreshold)

	layout.Viewport = config.ViewportTablet
	assert.Equal(t, annotate.Tablet, layout.AnnotateOptions().Viewport)
}

func TestCalendarConfig(t *testing.T) {
	t.Parallel()

	cal, err := config.CalendarConfig{}.Calendar()
	require.NoError(t, err)
	assert.Equal(t, 2024, cal.StartYear(season.Past))

	cal, err = config.CalendarConfig{AnchorYear: 2024}.Calendar()
	require.NoError(t, err)
	assert.Equal(t, 2025, cal.StartYear(season.Current))

	_, err = config.CalendarConfig{AnchorYear: 2025}.Calendar()
	require.ErrorIs(t, err, config.ErrAnchorYearMismatch)
	assert.Equal(t, 2024, season.DefaultReference().AnchorYear, "embedded reference is not mutated")

	_, err = config.CalendarConfig{ReferenceFile: filepath.Join(t.TempDir(), "missing.yaml")}.Calendar()
	require.Error(t, err)
}
