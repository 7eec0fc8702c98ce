package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
)

// Source modes.
const (
	SourceSheet  = "sheet"
	SourceStatic = "static"
	SourceFile   = "file"
)

// Viewport names accepted by layout.viewport.
const (
	ViewportAuto    = "auto"
	ViewportDesktop = "desktop"
	ViewportTablet  = "tablet"
	ViewportMobile  = "mobile"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const maxPort = 65535

// Config is the top-level configuration of the seasonality tool.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Layout    LayoutConfig    `mapstructure:"layout"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SourceConfig selects where sheet tabs are read from.
type SourceConfig struct {
	Mode       string        `mapstructure:"mode"`
	DocumentID string        `mapstructure:"document_id"`
	BaseURL    string        `mapstructure:"base_url"`
	Dir        string        `mapstructure:"dir"`
	Tabs       TabsConfig    `mapstructure:"tabs"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retry      RetryConfig   `mapstructure:"retry"`
}

// TabsConfig maps each dataset to its sheet gid.
type TabsConfig struct {
	UserEngagement    string `mapstructure:"user_engagement"`
	AdvertiserKPIs    string `mapstructure:"advertiser_kpis"`
	VerticalInclusion string `mapstructure:"vertical_inclusion"`
	LatestUpdate      string `mapstructure:"latest_update"`
}

// RetryConfig holds fetch retry knobs.
type RetryConfig struct {
	Attempts  int           `mapstructure:"attempts"`
	BaseDelay time.Duration `mapstructure:"base_delay"`
	MaxDelay  time.Duration `mapstructure:"max_delay"`
}

// CalendarConfig holds season reference settings.
type CalendarConfig struct {
	// AnchorYear, when positive, pins the season year the reference data
	// must be dated for. Period windows and holiday dates are not shifted.
	AnchorYear    int    `mapstructure:"anchor_year"`
	ReferenceFile string `mapstructure:"reference_file"`
}

// LayoutConfig holds chart geometry settings.
type LayoutConfig struct {
	Width           float64                    `mapstructure:"width"`
	Height          float64                    `mapstructure:"height"`
	Viewport        string                     `mapstructure:"viewport"`
	Threshold       float64                    `mapstructure:"threshold"`
	NarrowThreshold float64                    `mapstructure:"narrow_threshold"`
	Exceptions      map[string]annotate.Offset `mapstructure:"exceptions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Environment  string            `mapstructure:"environment"`
	OTLPEndpoint string            `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool              `mapstructure:"otlp_insecure"`
	OTLPHeaders  map[string]string `mapstructure:"otlp_headers"`
	SampleRatio  float64           `mapstructure:"sample_ratio"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidSourceMode indicates source.mode is not sheet, static or file.
	ErrInvalidSourceMode = errors.New("source.mode must be sheet, static or file")
	// ErrMissingDocumentID indicates sheet mode without a document id.
	ErrMissingDocumentID = errors.New("source.document_id is required in sheet mode")
	// ErrMissingBaseURL indicates static mode without a base url.
	ErrMissingBaseURL = errors.New("source.base_url is required in static mode")
	// ErrMissingDir indicates file mode without a directory.
	ErrMissingDir = errors.New("source.dir is required in file mode")
	// ErrMissingTab indicates a required tab gid is empty.
	ErrMissingTab = errors.New("source.tabs entry must not be empty")
	// ErrInvalidRetry indicates a negative retry setting.
	ErrInvalidRetry = errors.New("source.retry values must be non-negative")
	// ErrInvalidDimensions indicates a non-positive chart size.
	ErrInvalidDimensions = errors.New("layout.width and layout.height must be positive")
	// ErrInvalidViewport indicates an unknown layout.viewport.
	ErrInvalidViewport = errors.New("layout.viewport must be auto, desktop, tablet or mobile")
	// ErrInvalidPort indicates server.port is out of range.
	ErrInvalidPort = errors.New("server.port must be between 1 and 65535")
	// ErrInvalidLogFormat indicates logging.format is neither json nor text.
	ErrInvalidLogFormat = errors.New("logging.format must be json or text")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrAnchorYearMismatch indicates calendar.anchor_year differs from the
	// year the reference periods and holidays are dated for.
	ErrAnchorYearMismatch = errors.New("calendar.anchor_year does not match the reference data")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	sourceErr := c.validateSource()
	if sourceErr != nil {
		return sourceErr
	}

	layoutErr := c.validateLayout()
	if layoutErr != nil {
		return layoutErr
	}

	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	if c.Logging.Format != LogFormatJSON && c.Logging.Format != LogFormatText {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	_, calErr := c.Calendar.Calendar()
	if calErr != nil {
		return calErr
	}

	return nil
}

func (c *Config) validateSource() error {
	src := c.Source

	switch src.Mode {
	case SourceSheet:
		if src.DocumentID == "" {
			return ErrMissingDocumentID
		}
	case SourceStatic:
		if src.BaseURL == "" {
			return ErrMissingBaseURL
		}
	case SourceFile:
		if src.Dir == "" {
			return ErrMissingDir
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSourceMode, src.Mode)
	}

	tabs := map[string]string{
		"user_engagement":    src.Tabs.UserEngagement,
		"advertiser_kpis":    src.Tabs.AdvertiserKPIs,
		"vertical_inclusion": src.Tabs.VerticalInclusion,
	}
	for name, gid := range tabs {
		if gid == "" {
			return fmt.Errorf("%w: %s", ErrMissingTab, name)
		}
	}

	if src.Retry.Attempts < 0 || src.Retry.BaseDelay < 0 || src.Retry.MaxDelay < 0 || src.Timeout < 0 {
		return ErrInvalidRetry
	}

	return nil
}

func (c *Config) validateLayout() error {
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return ErrInvalidDimensions
	}

	valid := []string{ViewportAuto, ViewportDesktop, ViewportTablet, ViewportMobile}
	if !slices.Contains(valid, c.Layout.Viewport) {
		return fmt.Errorf("%w: %q", ErrInvalidViewport, c.Layout.Viewport)
	}

	return nil
}
