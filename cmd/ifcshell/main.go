// Command ifcshell is an interactive REPL onto a single Infinite
// Flight Connect session: unlike ifcctl, which dials, runs one
// operation and exits, ifcshell holds one long-lived Client across
// many interactive get/set/run/poll commands.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/ifconnect/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default: $XDG_CONFIG_HOME/ifconnect/config.yaml)")
	host := flag.String("host", "", "Simulator host, skipping UDP discovery")
	port := flag.Int("port", 0, "Simulator port (default 10112)")
	flag.Parse()

	cfg, err := config.MustLoad(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Connect.Host = *host
	}
	if *port != 0 {
		cfg.Connect.Port = *port
	}

	shell, err := newShell(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer shell.close()

	fmt.Println("connecting...")
	if err := shell.connect(30 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("connected, %d manifest entries loaded. Type 'help' for commands.\n", shell.client.Manifest().Len())

	shell.run(bufio.NewScanner(os.Stdin))
}
