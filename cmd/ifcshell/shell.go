package main

import (
	"bufio"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/marmos91/ifconnect/internal/cli/timeutil"
	"github.com/marmos91/ifconnect/internal/metrics"
	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/marmos91/ifconnect/pkg/config"
	"github.com/marmos91/ifconnect/pkg/ifc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shell holds the one long-lived Client a REPL session drives, plus
// the set of names currently registered with the poll engine, which
// decides which asynchronous data events get printed.
type shell struct {
	cfg    *config.Config
	client *ifc.Client

	mu      sync.Mutex
	polling map[string]bool
}

func newShell(cfg *config.Config) (*shell, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() { _ = srv.ListenAndServe() }()
	}

	clientCfg := cfg.ToClientConfig()
	clientCfg.Metrics = m

	client, err := ifc.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	s := &shell{cfg: cfg, client: client, polling: make(map[string]bool)}

	client.On(ifc.EventMsg, func(msg ifc.Message) {
		fmt.Printf("\n[%s] %s", msg.Kind, msg.Session)
		if msg.Err != nil {
			fmt.Printf(": %v", msg.Err)
		}
		fmt.Println()
	})
	client.On(ifc.EventData, func(u ifc.Update) {
		s.mu.Lock()
		watched := s.polling[u.Command]
		s.mu.Unlock()
		if watched {
			fmt.Printf("\n%s %s = %s\n", time.Now().Format("15:04:05"), u.Command, formatValue(u.Data))
		}
	})

	return s, nil
}

func (s *shell) connect(timeout time.Duration) error {
	ready := make(chan struct{})
	fail := make(chan error, 1)

	s.client.On(ifc.EventMsg, func(msg ifc.Message) {
		if msg.Kind == "error" {
			select {
			case fail <- msg.Err:
			default:
			}
		}
	})

	if err := s.client.Init(func() { close(ready) }); err != nil {
		return err
	}

	select {
	case <-ready:
		return nil
	case err := <-fail:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timed out waiting for simulator after %s", timeout)
	}
}

func (s *shell) close() {
	done := make(chan struct{})
	s.client.Close(func() { close(done) })
	<-done
}

func (s *shell) run(scanner *bufio.Scanner) {
	for {
		fmt.Print("ifc> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, rest := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			s.printHelp()
		case "manifest":
			s.cmdManifest()
		case "get":
			s.cmdGet(rest)
		case "set":
			s.cmdSet(rest)
		case "run":
			s.cmdRun(rest)
		case "poll":
			s.cmdPoll(rest)
		case "unpoll":
			s.cmdUnpoll(rest)
		case "cached":
			s.cmdCached(rest)
		default:
			fmt.Printf("unknown command %q, type 'help' for a list\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Println(`commands:
  get <name>                read a scalar once
  set <name> <value>        write a scalar
  run <name> [arg=value..]  invoke a command
  poll <name>               register a scalar with the poll loop
  unpoll <name>             deregister a scalar from the poll loop
  cached <name>             print the last cached value for a name, if any
  manifest                  list every entry in the negotiated catalog
  quit, exit                leave the shell`)
}

func (s *shell) cmdManifest() {
	entries := s.client.Manifest().Entries()
	for _, e := range entries {
		fmt.Printf("%6d  %-10s  %s\n", e.CommandID, e.Type, e.Name)
	}
}

func (s *shell) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <name>")
		return
	}
	name := args[0]

	done := make(chan struct{})
	err := s.client.Get(name, func(n string, v wire.Value, cbErr error) {
		if cbErr != nil {
			fmt.Printf("%s: %v\n", n, cbErr)
		} else {
			fmt.Printf("%s = %s\n", n, formatValue(v))
		}
		close(done)
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Printf("timed out waiting for %q\n", name)
	}
}

func (s *shell) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: set <name> <value>")
		return
	}
	name, raw := args[0], args[1]

	entry, ok := s.client.Manifest().ByName(name)
	if !ok {
		fmt.Printf("no manifest entry named %q\n", name)
		return
	}
	value, err := parseValue(entry.Type, raw)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := s.client.Set(name, value); err != nil {
		fmt.Println(err)
	}
}

func (s *shell) cmdRun(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: run <name> [arg=value ...]")
		return
	}
	name := args[0]

	entry, ok := s.client.Manifest().ByName(name)
	if !ok {
		fmt.Printf("no manifest entry named %q\n", name)
		return
	}
	if entry.Type != wire.Invokable {
		fmt.Printf("%q is %s, not invokable\n", name, entry.Type)
		return
	}

	invokeArgs := make([]wire.Arg, 0, len(args)-1)
	for _, tok := range args[1:] {
		n, v, found := strings.Cut(tok, "=")
		if !found {
			fmt.Printf("invalid argument %q, expected name=value\n", tok)
			return
		}
		invokeArgs = append(invokeArgs, wire.Arg{Name: n, Value: v})
	}

	if err := s.client.Run(name, invokeArgs); err != nil {
		fmt.Println(err)
	}
}

func (s *shell) cmdPoll(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: poll <name>")
		return
	}
	name := args[0]
	if err := s.client.PollRegister(name, nil); err != nil {
		fmt.Println(err)
		return
	}
	s.mu.Lock()
	s.polling[name] = true
	s.mu.Unlock()
	fmt.Printf("polling %s\n", name)
}

func (s *shell) cmdUnpoll(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: unpoll <name>")
		return
	}
	name := args[0]
	if err := s.client.PollDeregister(name); err != nil {
		fmt.Println(err)
		return
	}
	s.mu.Lock()
	delete(s.polling, name)
	s.mu.Unlock()
}

func (s *shell) cmdCached(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: cached <name>")
		return
	}
	entry, ok := s.client.Cached(args[0])
	if !ok {
		fmt.Println("no cached value")
		return
	}
	fmt.Printf("%s = %s (as of %s)\n", args[0], formatValue(entry.Value), timeutil.FormatTime(entry.Timestamp.Format(time.RFC3339)))
}

func formatValue(v wire.Value) string {
	switch v.Type() {
	case wire.Boolean:
		return strconv.FormatBool(v.Bool())
	case wire.Integer:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case wire.Float:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	case wire.Double:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case wire.String:
		return v.String()
	case wire.Long:
		return strconv.FormatInt(v.Int64(), 10)
	default:
		return ""
	}
}

func parseValue(typ wire.Type, raw string) (wire.Value, error) {
	switch typ {
	case wire.Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a boolean, got %q", raw)
		}
		return wire.BoolValue(b), nil
	case wire.Integer:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a 32-bit integer, got %q", raw)
		}
		return wire.IntValue(int32(n)), nil
	case wire.Float:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a float, got %q", raw)
		}
		return wire.FloatValue(float32(f)), nil
	case wire.Double:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a double, got %q", raw)
		}
		return wire.DoubleValue(f), nil
	case wire.String:
		return wire.StringValue(raw), nil
	case wire.Long:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a 64-bit integer, got %q", raw)
		}
		return wire.LongValue(n), nil
	default:
		return wire.Value{}, fmt.Errorf("unsupported wire type %s", typ)
	}
}
