package config

import (
	"strings"
	"time"
)

// ApplyDefaults fills zero-valued fields with sensible defaults. It
// leaves explicitly-set values untouched.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyConnectDefaults(&cfg.Connect)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
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

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyConnectDefaults(cfg *ConnectConfig) {
	if cfg.Host != "" && cfg.Port == 0 {
		cfg.Port = 10112
	}
	if cfg.ManifestTimeout == 0 {
		cfg.ManifestTimeout = 1000 * time.Millisecond
	}
	if cfg.DiscoveryTimeout == 0 {
		cfg.DiscoveryTimeout = 5 * time.Second
	}
	// ReconnectEnabled has no zero-is-unset distinction from false; a
	// bare Config{} loaded from an empty file leaves it at Go's bool
	// zero value, matching ifc.ApplyDefaults' own documented limit.
	// GetDefaultConfig, below, is the one path that sets it to true
	// without the caller having to say so explicitly.
}

// GetDefaultConfig returns a Config with every default applied,
// including ReconnectEnabled=true, which ApplyDefaults alone cannot
// infer from a zero Config{}.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Connect: ConnectConfig{
			ReconnectEnabled: true,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
