package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/pkg/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective recursive-nfs configuration, with defaults and
environment overrides applied. The API key is masked.

By default outputs YAML format. Use --output json for JSON.

Examples:
  # Show default config as YAML
  recursive-nfs config show

  # Show as JSON
  recursive-nfs config show --output json`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("output")
	parsed, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	switch parsed {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), cfg.Redacted())
	default:
		return output.PrintYAML(cmd.OutOrStdout(), cfg.Redacted())
	}
}
