package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyLoggingDefaults(t *testing.T) {
	cfg := &LoggingConfig{}
	applyLoggingDefaults(cfg)

	assert.Equal(t, "INFO", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
}

func TestApplyLoggingDefaultsNormalizesCase(t *testing.T) {
	cfg := &LoggingConfig{Level: "warn"}
	applyLoggingDefaults(cfg)

	assert.Equal(t, "WARN", cfg.Level)
}

func TestApplyTelemetryDefaults(t *testing.T) {
	cfg := &TelemetryConfig{}
	applyTelemetryDefaults(cfg)

	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestApplyMetricsDefaults(t *testing.T) {
	cfg := &MetricsConfig{}
	applyMetricsDefaults(cfg)

	assert.Equal(t, 9090, cfg.Port)
}

func TestApplyConnectDefaultsSetsPortOnlyWhenHostSet(t *testing.T) {
	withHost := &ConnectConfig{Host: "1.2.3.4"}
	applyConnectDefaults(withHost)
	assert.Equal(t, 10112, withHost.Port)

	withoutHost := &ConnectConfig{}
	applyConnectDefaults(withoutHost)
	assert.Equal(t, 0, withoutHost.Port)
}

func TestApplyConnectDefaultsTimeouts(t *testing.T) {
	cfg := &ConnectConfig{}
	applyConnectDefaults(cfg)

	assert.Equal(t, 1000*time.Millisecond, cfg.ManifestTimeout)
	assert.Equal(t, 5*time.Second, cfg.DiscoveryTimeout)
}

func TestGetDefaultConfigSetsReconnectEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.True(t, cfg.Connect.ReconnectEnabled)
}
