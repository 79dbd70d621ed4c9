// Package cmdutil provides shared utilities for ifcctl commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/marmos91/ifconnect/internal/cli/output"
	"github.com/marmos91/ifconnect/internal/cli/prompt"
	"github.com/marmos91/ifconnect/internal/metrics"
	"github.com/marmos91/ifconnect/internal/telemetry"
	"github.com/marmos91/ifconnect/pkg/config"
	"github.com/marmos91/ifconnect/pkg/ifc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigPath string
	Host       string
	Port       int
	Timeout    time.Duration
	Output     string
	NoColor    bool
	Verbose    bool
}

// LoadConfig resolves the effective configuration for a single ifcctl
// invocation: the on-disk config (or its defaults, if none exists) with
// any --host/--port/--timeout flag overrides layered on top.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.MustLoad(Flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if Flags.Host != "" {
		cfg.Connect.Host = Flags.Host
	}
	if Flags.Port != 0 {
		cfg.Connect.Port = Flags.Port
	}
	if Flags.Timeout != 0 {
		cfg.Connect.Timeout = Flags.Timeout
	}
	return cfg, nil
}

// Connect loads the effective configuration, wires metrics and tracing
// per its Metrics/Telemetry sections, builds a Client and blocks until
// Init reaches StateReady or the configured discovery/manifest timeout
// elapses. The returned shutdown func stops the metrics server (if one
// was started) and flushes the tracer provider; callers should defer it
// alongside Client.Close.
func Connect() (client *ifc.Client, shutdown func(), err error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	shutdown = func() {}

	var reg *prometheus.Registry
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		m = metrics.New(reg)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() { _ = srv.ListenAndServe() }()
		shutdown = func() { _ = srv.Close() }
	}

	if cfg.Telemetry.Enabled {
		telemetryShutdown, terr := telemetry.Init(context.Background(), telemetry.Config{
			Enabled:        true,
			ServiceName:    "ifcctl",
			ServiceVersion: "dev",
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if terr != nil {
			return nil, nil, fmt.Errorf("init telemetry: %w", terr)
		}
		prev := shutdown
		shutdown = func() {
			prev()
			_ = telemetryShutdown(context.Background())
		}
	}

	clientCfg := cfg.ToClientConfig()
	clientCfg.Metrics = m

	client, err = ifc.New(clientCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build client: %w", err)
	}

	ready := make(chan struct{})
	fail := make(chan error, 1)
	client.On(ifc.EventMsg, func(msg ifc.Message) {
		if msg.Kind == "error" {
			select {
			case fail <- msg.Err:
			default:
			}
		}
	})

	if err := client.Init(func() { close(ready) }); err != nil {
		return nil, nil, fmt.Errorf("init client: %w", err)
	}

	timeout := cfg.Connect.DiscoveryTimeout + cfg.Connect.ManifestTimeout + 5*time.Second
	select {
	case <-ready:
		return client, shutdown, nil
	case err := <-fail:
		return nil, nil, fmt.Errorf("connect failed: %w", err)
	case <-time.After(timeout):
		return nil, nil, fmt.Errorf("timed out waiting for simulator after %s", timeout)
	}
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled returns whether color output is disabled.
func IsColorDisabled() bool {
	return Flags.NoColor
}

// PrintOutput prints data in the specified format (JSON, YAML, or table).
// For table format, it displays emptyMsg if data is empty, otherwise uses the tableRenderer.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints a success message if the output format is table.
func PrintSuccess(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	printer := output.NewPrinter(os.Stdout, format, !IsColorDisabled())
	printer.Success(msg)
}

// PrintResource prints a resource in the specified format.
// For table format, it uses the provided tableRenderer. For JSON/YAML, it outputs the resource.
func PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// ParseCommaSeparatedList parses a comma-separated string into a slice of trimmed strings.
func ParseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// BoolToYesNo converts a boolean to "yes" or "no" string.
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// HandleAbort checks if error is an abort (Ctrl+C) and prints a message.
// Returns nil for abort (user cancelled), otherwise returns the original error.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// ParseDuration parses s as a duration, falling back to an integer
// number of milliseconds when s has no unit suffix (e.g. "250" means
// "250ms"), matching the shorthand callers expect from --timeout flags.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	ms, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
