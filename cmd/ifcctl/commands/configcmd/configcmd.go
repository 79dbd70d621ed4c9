// Package configcmd implements ifcctl's "config" subcommand tree.
package configcmd

import (
	"fmt"
	"os"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/marmos91/ifconnect/pkg/config"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for local configuration management.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ifcctl's local configuration file",
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file to the path given by --config,
or to the XDG default location if --config is not set.

Examples:
  ifcctl config init
  ifcctl config init --config ./ifcconnect.yaml`,
	RunE: runInit,
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetDefaultConfigPath())
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(pathCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cmdutil.Flags.ConfigPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("wrote default configuration to %s", path))
	return nil
}
