// Package commands implements the recursive-nfs CLI.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	configcmd "github.com/marmos91/recursive-nfs/cmd/recursive-nfs/commands/config"
	sharescmd "github.com/marmos91/recursive-nfs/cmd/recursive-nfs/commands/shares"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recursive-nfs",
	Short: "Pseudo-recursive NFS shares for TrueNAS",
	Long: `recursive-nfs keeps one NFS share per dataset below the configured prefixes.

It reads the dataset list (from 'zfs list -o name' output or the appliance API),
compares it with the NFS shares on the appliance and then, after asking:
  1. offers to delete manual shares that export a managed dataset
  2. deletes shares it created earlier that are no longer needed
  3. updates its shares whose settings drifted from the config
  4. creates the missing shares

Shares it owns are recognised by a marker at the end of their comment.

Use "recursive-nfs [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Sync flags to cmdutil.Flags for subcommands
		cmdutil.Flags.ConfigFile, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.Verbose, _ = cmd.Flags().GetBool("verbose")
		cmdutil.Version = Version
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: ./config.yaml, then $XDG_CONFIG_HOME/recursive-nfs/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sharescmd.Cmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
