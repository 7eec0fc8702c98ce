// Package config loads seasonality settings from defaults, an optional YAML
// file, a .env file and SEASONALITY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = "seasonality"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix.
const envPrefix = "SEASONALITY"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// dotenvFile is loaded into the process environment when present.
const dotenvFile = ".env"

// Defaults.
const (
	DefaultSourceMode        = SourceSheet
	DefaultDocumentID        = "2PACX-1vTIHTQnmp5gELDxoqd-e70EzKMHIOiVYpdw-cl1wWp79fSR--V-s6trYXY97rUTrXsXBYP5VaNeVPoo"
	DefaultBaseURL           = "https://www.moloco.com/seasonality-report/data/"
	DefaultTabUser           = "734297840"
	DefaultTabAdvertiser     = "337233485"
	DefaultTabInclusion      = "1073630041"
	DefaultTabLatestUpdate   = "1752590836"
	DefaultSourceTimeout     = "30s"
	DefaultRetryAttempts     = 3
	DefaultRetryBaseDelay    = "500ms"
	DefaultRetryMaxDelay     = "5s"
	DefaultLayoutWidth       = 1200.0
	DefaultLayoutHeight      = 600.0
	DefaultPort              = 8080
	DefaultHost              = "0.0.0.0"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = LogFormatText
	DefaultEnvironment       = "development"
	DefaultTelemetrySampling = 1.0
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise seasonality.yaml is searched in ., ./config and /etc/seasonality.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	dotenvErr := godotenv.Load(dotenvFile)
	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvFile, dotenvErr)
	}

	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/seasonality")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	viperCfg := viper.New()
	applyDefaults(viperCfg)

	var cfg Config

	// Defaults always decode.
	_ = viperCfg.Unmarshal(&cfg)

	return &cfg
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("source.mode", DefaultSourceMode)
	viperCfg.SetDefault("source.document_id", DefaultDocumentID)
	viperCfg.SetDefault("source.base_url", DefaultBaseURL)
	viperCfg.SetDefault("source.dir", "")
	viperCfg.SetDefault("source.tabs.user_engagement", DefaultTabUser)
	viperCfg.SetDefault("source.tabs.advertiser_kpis", DefaultTabAdvertiser)
	viperCfg.SetDefault("source.tabs.vertical_inclusion", DefaultTabInclusion)
	viperCfg.SetDefault("source.tabs.latest_update", DefaultTabLatestUpdate)
	viperCfg.SetDefault("source.timeout", DefaultSourceTimeout)
	viperCfg.SetDefault("source.retry.attempts", DefaultRetryAttempts)
	viperCfg.SetDefault("source.retry.base_delay", DefaultRetryBaseDelay)
	viperCfg.SetDefault("source.retry.max_delay", DefaultRetryMaxDelay)

	viperCfg.SetDefault("calendar.anchor_year", 0)
	viperCfg.SetDefault("calendar.reference_file", "")

	viperCfg.SetDefault("layout.width", DefaultLayoutWidth)
	viperCfg.SetDefault("layout.height", DefaultLayoutHeight)
	viperCfg.SetDefault("layout.viewport", ViewportAuto)
	viperCfg.SetDefault("layout.threshold", 0)
	viperCfg.SetDefault("layout.narrow_threshold", 0)

	viperCfg.SetDefault("server.host", DefaultHost)
	viperCfg.SetDefault("server.port", DefaultPort)
	viperCfg.SetDefault("server.read_timeout", "15s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")
	viperCfg.SetDefault("server.shutdown_timeout", "10s")

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampling)
}
