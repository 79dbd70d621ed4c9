package commands

import (
	"fmt"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Write a state variable",
	Long: `Write a single scalar state variable by its manifest name. The
value is parsed according to the type the peer's manifest declares for
that name (boolean, integer, float, double, string or long).

Examples:
  ifcctl set autopilot/heading 270
  ifcctl set controls/flaps 1`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	name, raw := args[0], args[1]

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

	value, err := parseValue(entry.Type, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := client.Set(name, value); err != nil {
		return err
	}

	cmdutil.PrintSuccess(fmt.Sprintf("%s set to %s", name, raw))
	return nil
}
