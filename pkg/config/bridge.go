package config

import "github.com/marmos91/ifconnect/pkg/ifc"

// ToClientConfig converts the Connect section plus logging settings
// into an ifc.Config ready to pass to ifc.New. Metrics and tracing are
// wired separately by the caller (cmd/ifcshell, cmd/ifcctl), since they
// carry process-lifetime state (a *metrics.Metrics registry, an
// otel shutdown func) this package has no business owning.
func (cfg *Config) ToClientConfig() ifc.Config {
	c := cfg.Connect
	return ifc.Config{
		Host:             c.Host,
		Port:             c.Port,
		KeepAlive:        c.KeepAlive,
		ReconnectEnabled: c.ReconnectEnabled,
		Timeout:          c.Timeout,
		ManifestTimeout:  c.ManifestTimeout,
		DiscoveryTimeout: c.DiscoveryTimeout,
		PollThrottle:     c.PollThrottle,
		LogEnabled:       true,
		LogLevel:         cfg.Logging.Level,
		TracingEnabled:   cfg.Telemetry.Enabled,
	}
}
