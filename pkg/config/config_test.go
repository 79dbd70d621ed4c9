package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_AppliesDefaultsOnTopOfFile(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
connect:
  host: 192.168.1.50
  manifest_timeout: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "192.168.1.50", cfg.Connect.Host)
	assert.Equal(t, 10112, cfg.Connect.Port)
	assert.Equal(t, 2*time.Second, cfg.Connect.ManifestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Connect.DiscoveryTimeout)
}

func TestLoad_NoConfigFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Connect.ReconnectEnabled)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: LOUD
  format: text
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveConfigThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Connect.Host = "10.0.0.5"
	cfg.Logging.Level = "WARN"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", loaded.Connect.Host)
	assert.Equal(t, "WARN", loaded.Logging.Level)
}

func TestMustLoad_MissingDefaultFileReturnsHelpfulError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := MustLoad("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ifcctl config init")
}

func TestMustLoad_ExplicitMissingPathReturnsError(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDefaultConfigPathUsesXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	assert.Equal(t, filepath.Join(xdg, "ifconnect", "config.yaml"), GetDefaultConfigPath())
}

func TestToClientConfigCarriesConnectFields(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Connect.Host = "192.168.1.20"
	cfg.Connect.Timeout = 3 * time.Second
	cfg.Telemetry.Enabled = true

	clientCfg := cfg.ToClientConfig()
	assert.Equal(t, "192.168.1.20", clientCfg.Host)
	assert.Equal(t, 3*time.Second, clientCfg.Timeout)
	assert.True(t, clientCfg.TracingEnabled)
	assert.True(t, clientCfg.LogEnabled)
}
