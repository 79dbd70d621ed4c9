package commands

import (
	"os"
	"strconv"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/spf13/cobra"
)

type manifestRow struct {
	CommandID int32  `json:"command_id" yaml:"command_id"`
	Type      string `json:"type" yaml:"type"`
	Name      string `json:"name" yaml:"name"`
}

type manifestRowList []manifestRow

func (ml manifestRowList) Headers() []string { return []string{"COMMAND_ID", "TYPE", "NAME"} }

func (ml manifestRowList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, r := range ml {
		rows = append(rows, []string{strconv.FormatInt(int64(r.CommandID), 10), r.Type, r.Name})
	}
	return rows
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "List the peer's negotiated command catalog",
	Long: `Connect to the simulator, negotiate the manifest, and print
every entry it declares: its command id, wire type (or "Invokable"
for a command), and path-shaped name.

Examples:
  ifcctl manifest
  ifcctl manifest -o json`,
	RunE: runManifest,
}

func runManifest(cmd *cobra.Command, args []string) error {
	client, shutdown, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer shutdown()
	defer client.Close(nil)

	entries := client.Manifest().Entries()
	rows := make(manifestRowList, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, manifestRow{CommandID: e.CommandID, Type: e.Type.String(), Name: e.Name})
	}

	return cmdutil.PrintOutput(os.Stdout, rows, len(rows) == 0, "No manifest entries.", rows)
}
