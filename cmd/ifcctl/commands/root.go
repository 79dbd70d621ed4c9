// Package commands implements the CLI commands for ifcctl.
package commands

import (
	"os"

	"github.com/marmos91/ifconnect/cmd/ifcctl/cmdutil"
	"github.com/marmos91/ifconnect/cmd/ifcctl/commands/configcmd"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ifcctl",
	Short: "Infinite Flight Connect control client",
	Long: `ifcctl is a one-shot command-line client for the Infinite Flight
Connect v2 API: it discovers or dials a running simulator, negotiates
its command manifest, runs a single get/set/run/poll operation, and
exits.

Use "ifcctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ConfigPath, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.Host, _ = cmd.Flags().GetString("host")
		cmdutil.Flags.Port, _ = cmd.Flags().GetInt("port")
		if s, _ := cmd.Flags().GetString("timeout"); s != "" {
			cmdutil.Flags.Timeout, _ = cmdutil.ParseDuration(s)
		}
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.Verbose, _ = cmd.Flags().GetBool("verbose")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: $XDG_CONFIG_HOME/ifconnect/config.yaml)")
	rootCmd.PersistentFlags().String("host", "", "Simulator host, skipping UDP discovery")
	rootCmd.PersistentFlags().Int("port", 0, "Simulator port (default 10112)")
	rootCmd.PersistentFlags().String("timeout", "", "Read timeout for the command/poll sessions (e.g. 500ms)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(configcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
