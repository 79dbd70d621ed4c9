// Package config loads the consumer-facing configuration for the
// ifcshell and ifcctl command-line tools. It is distinct from
// ifc.Config: this package governs how a CLI tool is set up (logging,
// telemetry, metrics server, file/env/flag precedence), while
// ifc.Config governs one in-process Client's connection behavior.
// ToClientConfig (bridge.go) bridges the two.
//
// Configuration sources, highest precedence first:
//  1. CLI flags (bound by the caller via viper.BindPFlag)
//  2. Environment variables (IFC_*)
//  3. Configuration file (YAML)
//  4. Default values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for ifcshell and ifcctl.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Connect   ConnectConfig   `mapstructure:"connect" yaml:"connect"`
}

// LoggingConfig controls diagnostic log output.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	// Enabled opts into tracing spans around get/set/run/poll_register calls.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Endpoint is the OTLP gRPC collector endpoint.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Insecure disables TLS on the OTLP connection.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`
	// SampleRate is the trace sampling rate, 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1" yaml:"sample_rate"`
}

// MetricsConfig controls the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	// Enabled starts the metrics HTTP server and wires a *metrics.Metrics
	// into the Client.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Port is the HTTP port /metrics is served on.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// ConnectConfig mirrors the connection-timing knobs of ifc.Config in a
// form viper/yaml/env can populate; ToClientConfig converts it.
type ConnectConfig struct {
	// Host and Port, when Host is non-empty, skip discovery and connect
	// directly.
	Host string `mapstructure:"host" yaml:"host,omitempty"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port,omitempty"`

	KeepAlive        bool          `mapstructure:"keep_alive" yaml:"keep_alive"`
	ReconnectEnabled bool          `mapstructure:"reconnect_enabled" yaml:"reconnect_enabled"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ManifestTimeout  time.Duration `mapstructure:"manifest_timeout" validate:"gt=0" yaml:"manifest_timeout"`
	DiscoveryTimeout time.Duration `mapstructure:"discovery_timeout" validate:"gt=0" yaml:"discovery_timeout"`
	PollThrottle     time.Duration `mapstructure:"poll_throttle" yaml:"poll_throttle"`
}

// Load reads configuration from configPath (or the default location, if
// empty), the IFC_* environment, and defaults, in that order of
// decreasing precedence, then applies defaults and validates the
// result. When no configuration file is found, Load returns
// GetDefaultConfig() as is: the IFC_* environment is not consulted.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration, returning a user-facing error with
// remediation instructions when no config file exists at the default
// location.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf(
				"no configuration file found at %s\n\n"+
					"create one with:\n  ifcctl config init\n\n"+
					"or point at an existing file:\n  ifcctl --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories as
// needed. The file is written 0600 since a future Connect.Host/config
// may carry credentials for a direct-connect peer.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("IFC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// durationDecodeHook lets config files and environment variables write
// human-readable durations like "30s" or "1m30s" for any time.Duration
// field.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ifconnect")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ifconnect")
}

// GetDefaultConfigPath returns the default configuration file location.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir exposes the configuration directory for commands like
// "ifcctl config init".
func GetConfigDir() string {
	return getConfigDir()
}
