package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/internal/cli/prompt"
	"github.com/marmos91/recursive-nfs/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Write a sample recursive-nfs configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/recursive-nfs/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  recursive-nfs config init

  # Initialize next to the binary
  recursive-nfs config init --config ./config.yaml

  # Overwrite an existing file without asking
  recursive-nfs config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file without asking")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	force := initForce
	if _, err := os.Stat(path); err == nil && !force {
		confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Overwrite existing configuration at %s?", path), false)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
		if !confirmed {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
		force = true
	}

	if err := config.InitConfigToPath(path, force); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", path)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set appliance_api.host and the share prefixes")
	_, _ = fmt.Fprintf(out, "  2. Provide the API key via %s_APPLIANCE_API_KEY or a .env file\n", config.EnvPrefix)
	_, _ = fmt.Fprintln(out, "  3. Preview the changes with: recursive-nfs plan")
	return nil
}
