package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/spf13/cobra"
)

var (
	pollCount    int
	pollDuration time.Duration
)

var pollCmd = &cobra.Command{
	Use:   "poll <name>",
	Short: "Register a state variable with the round-robin poll loop and print updates",
	Long: `Register name with the poll engine, print each update as it
arrives, and deregister before exiting. By default runs until --count
updates have printed or --duration has elapsed, whichever comes first.

Examples:
  ifcctl poll aircraft/0/altitude --count 5
  ifcctl poll sim/speed --duration 10s -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runPoll,
}

func init() {
	pollCmd.Flags().IntVar(&pollCount, "count", 1, "Number of updates to print before exiting")
	pollCmd.Flags().DurationVar(&pollDuration, "duration", 30*time.Second, "Maximum time to poll before exiting")
}

func runPoll(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, shutdown, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer shutdown()
	defer client.Close(nil)

	updates := make(chan wire.Value, 16)
	if err := client.PollRegister(name, func(n string, v wire.Value, cbErr error) {
		if cbErr != nil {
			return
		}
		select {
		case updates <- v:
		default:
		}
	}); err != nil {
		return err
	}
	defer client.PollDeregister(name)

	deadline := time.After(pollDuration)
	printed := 0
	for printed < pollCount {
		select {
		case v := <-updates:
			res := valueResult{Name: name, Value: formatValue(v), Type: v.Type().String()}
			if err := cmdutil.PrintResource(os.Stdout, res, valueResultList{res}); err != nil {
				return err
			}
			printed++
		case <-deadline:
			if printed == 0 {
				return fmt.Errorf("timed out waiting for %q", name)
			}
			return nil
		}
	}
	return nil
}
