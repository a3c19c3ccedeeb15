package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the recursive-nfs configuration file.

Checks for syntax errors, missing required fields, invalid values and share
option bundles with unknown keys.

Examples:
  # Validate default config
  recursive-nfs config validate

  # Validate specific config file
  recursive-nfs config validate --config /etc/recursive-nfs/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	displayPath := path
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if warnings := config.Warnings(cfg); len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Appliance API:   %s\n", cfg.ApplianceAPI.BaseURL())
	_, _ = fmt.Fprintf(out, "  Mount prefix:    %s\n", cfg.MountPrefix)
	_, _ = fmt.Fprintf(out, "  Share prefixes:  %d\n", len(cfg.Shares))
	_, _ = fmt.Fprintf(out, "  Custom options:  %d\n", len(cfg.ShareOptions.Custom))
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
