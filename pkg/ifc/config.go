package ifc

import (
	"time"

	"github.com/marmos91/ifconnect/internal/metrics"
)

// Config controls how a Client discovers and connects to a peer, and
// the timing knobs of its protocol engine (§6).
type Config struct {
	// Host and Port, when Host is non-empty, skip UDP discovery entirely
	// and connect directly. Port defaults to 10112 when Host is set and
	// Port is zero.
	Host string
	Port int

	// KeepAlive enables TCP keepalive on both long-lived sessions.
	KeepAlive bool
	// ReconnectEnabled reconnects a session on socket error. Defaults to
	// true.
	ReconnectEnabled bool
	// Timeout is the read timeout applied to the command and poll
	// sessions. Zero means no timeout.
	Timeout time.Duration
	// ManifestTimeout is the read timeout applied to the short-lived
	// manifest connection. Defaults to 1000ms.
	ManifestTimeout time.Duration
	// DiscoveryTimeout bounds how long Init waits for a UDP broadcast
	// responder before failing with DiscoveryTimeout (§4.2). Not part of
	// the reference configuration surface, which never bounded this
	// wait; required here since Init must return control to the caller
	// deterministically. Defaults to 5s.
	DiscoveryTimeout time.Duration
	// PollThrottle delays every poll dispatch by this much after the
	// previous one completes. Zero dispatches immediately.
	PollThrottle time.Duration

	// LogEnabled and LogLevel configure engine diagnostics (§6,
	// logger.Config).
	LogEnabled bool
	LogLevel   string

	// Metrics, when non-nil, receives frame, reconnect, wait-list,
	// queue and poll-cursor counters as the engine runs. A nil Metrics
	// disables instrumentation with zero overhead.
	Metrics *metrics.Metrics

	// Tracing spans are emitted around each Get/Set/Run/PollRegister
	// call when TracingEnabled is set. TracingEnabled defaults to false:
	// call telemetry.Init separately to wire a real exporter before
	// passing a Config with TracingEnabled set.
	TracingEnabled bool
}

// ApplyDefaults returns a copy of cfg with zero-valued timing and port
// fields set to their documented defaults (§6). It does not touch
// ReconnectEnabled: Go's zero value for bool is false, so there is no
// way to distinguish "unset" from "explicitly disabled" on a bare
// Config{} literal. Build on DefaultConfig() rather than a struct
// literal if ReconnectEnabled=true is wanted without stating it.
func (cfg Config) ApplyDefaults() Config {
	out := cfg
	if out.Host != "" && out.Port == 0 {
		out.Port = defaultPort
	}
	if out.ManifestTimeout == 0 {
		out.ManifestTimeout = defaultManifestTimeout
	}
	if out.DiscoveryTimeout == 0 {
		out.DiscoveryTimeout = defaultDiscoveryTimeout
	}
	return out
}

const (
	defaultPort             = 10112
	defaultManifestTimeout  = 1000 * time.Millisecond
	defaultDiscoveryTimeout = 5 * time.Second
)

// DefaultConfig returns a Config with every default applied, including
// ReconnectEnabled=true, which ApplyDefaults cannot infer from a zero
// Config{} alone.
func DefaultConfig() Config {
	return Config{
		ReconnectEnabled: true,
		ManifestTimeout:  defaultManifestTimeout,
		DiscoveryTimeout: defaultDiscoveryTimeout,
	}
}
