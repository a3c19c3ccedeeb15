package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/internal/cli/output"
)

var (
	datasetsFlags cmdutil.DatasetFlags
	datasetsAll   bool
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the datasets that need a share",
	Long: `List the datasets matched by the configured share prefixes.

Examples:
  # Relevant datasets from the appliance
  recursive-nfs datasets

  # Every dataset with a RELEVANT column
  recursive-nfs datasets --all`,
	RunE: runDatasets,
}

func init() {
	datasetsFlags.Register(datasetsCmd)
	datasetsCmd.Flags().BoolVarP(&datasetsAll, "all", "a", false, "List every dataset, not only relevant ones")
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	ctx, run, err := cmdutil.StartRun(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer run.Close()

	ds, err := cmdutil.LoadDatasets(ctx, cmd, run, datasetsFlags)
	if err != nil {
		return err
	}

	relevant := make(map[string]bool, len(ds.Relevant))
	for _, name := range ds.Relevant {
		relevant[name] = true
	}

	table := output.NewTableData("DATASET", "RELEVANT", "SHARE PATH")
	names := ds.Relevant
	if datasetsAll {
		names = ds.All
	}
	for _, name := range names {
		path := "-"
		if relevant[name] {
			path = cfg.MountPrefix + name
		}
		table.AddRow(name, cmdutil.BoolToYesNo(relevant[name]), path)
	}

	return cmdutil.PrintOutput(cmd.OutOrStdout(), ds, table.Len() == 0, "No relevant datasets found.", table)
}
