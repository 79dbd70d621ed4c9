package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/spf13/cobra"
)

// valueResult is a single name/value pair for table rendering.
type valueResult struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

type valueResultList []valueResult

func (vl valueResultList) Headers() []string { return []string{"NAME", "VALUE", "TYPE"} }

func (vl valueResultList) Rows() [][]string {
	rows := make([][]string, 0, len(vl))
	for _, v := range vl {
		rows = append(rows, []string{v.Name, v.Value, v.Type})
	}
	return rows
}

var getTimeout time.Duration

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Read a state variable",
	Long: `Read a single scalar state variable by its manifest name and print
its decoded value.

Examples:
  ifcctl get aircraft/0/name
  ifcctl get sim/speed -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().DurationVar(&getTimeout, "wait", 5*time.Second, "How long to wait for the response")
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, shutdown, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer shutdown()
	defer client.Close(nil)

	type outcome struct {
		value wire.Value
		err   error
	}
	done := make(chan outcome, 1)

	if err := client.Get(name, func(n string, v wire.Value, cbErr error) {
		done <- outcome{value: v, err: cbErr}
	}); err != nil {
		return err
	}

	select {
	case o := <-done:
		if o.err != nil {
			return o.err
		}
		res := valueResult{Name: name, Value: formatValue(o.value), Type: o.value.Type().String()}
		return cmdutil.PrintResource(os.Stdout, res, valueResultList{res})
	case <-time.After(getTimeout):
		return fmt.Errorf("timed out waiting for %q", name)
	}
}
