package config

import (
	"strings"
	"time"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

// DefaultAPIPath is the REST root of the appliance API.
const DefaultAPIPath = "/api/v2.0"

// ApplyDefaults fills zero-valued fields. Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyAPIDefaults(&cfg.ApplianceAPI)

	if cfg.MountPrefix == "" {
		cfg.MountPrefix = share.DefaultMountPrefix
	}
	if !strings.HasSuffix(cfg.MountPrefix, "/") {
		cfg.MountPrefix += "/"
	}
	if cfg.ShareOptions.Default == nil {
		cfg.ShareOptions.Default = share.Bundle{}
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
	if cfg.Level == "WARNING" {
		cfg.Level = "WARN"
	}

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	// stdout carries the plan tables and prompts
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

func applyAPIDefaults(cfg *ApplianceAPIConfig) {
	if cfg.Path == "" {
		cfg.Path = DefaultAPIPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
}

// GetDefaultConfig returns a configuration with every default applied and
// placeholder appliance settings.
func GetDefaultConfig() *Config {
	cfg := &Config{
		ApplianceAPI: ApplianceAPIConfig{
			Host: "https://truenas.local",
		},
		Shares: []string{"tank/media"},
	}
	ApplyDefaults(cfg)
	return cfg
}
