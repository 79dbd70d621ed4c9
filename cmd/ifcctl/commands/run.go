package commands

import (
	"fmt"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <name> [arg=value ...]",
	Short: "Invoke a command",
	Long: `Invoke a command-typed manifest entry with zero or more
name=value arguments. Commands have no return value on the wire.

Examples:
  ifcctl run aircraft/0/lights/landing/toggle
  ifcctl run autopilot/engage mode=heading`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, shutdown, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer shutdown()
	defer client.Close(nil)

	m := client.Manifest()
	entry, ok := m.ByName(name)
	if !ok {
		return fmt.Errorf("no manifest entry named %q", name)
	}
	if entry.Type != wire.Invokable {
		return fmt.Errorf("%q is %s, not invokable", name, entry.Type)
	}

	invokeArgs, err := parseArgs(args[1:])
	if err != nil {
		return err
	}

	if err := client.Run(name, invokeArgs); err != nil {
		return err
	}

	cmdutil.PrintSuccess(fmt.Sprintf("%s invoked", name))
	return nil
}
