package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/internal/cli/timeutil"
	"github.com/marmos91/recursive-nfs/pkg/config"
	prommetrics "github.com/marmos91/recursive-nfs/pkg/metrics/prometheus"
	"github.com/marmos91/recursive-nfs/pkg/progress"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
)

var (
	applyDatasets     cmdutil.DatasetFlags
	applyYes          bool
	applyDeleteManual bool

	// applyAsker overrides the terminal prompt in tests.
	applyAsker cmdutil.Asker
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile the appliance's NFS shares with the dataset list",
	Long: `Reconcile the appliance's NFS shares with the dataset list.

Each stage lists the shares it is about to touch and asks before changing
anything. Deletions default to "no", updates and creations to "yes". Declining
the removal of stale shares stops the run before any update or creation.

Examples:
  # Query datasets through the appliance API
  recursive-nfs apply

  # Use the output of zfs list
  zfs list -o name | recursive-nfs apply --stdin
  recursive-nfs apply --datasets-file datasets.txt

  # Run unattended, keeping manual shares
  recursive-nfs apply --yes`,
	RunE: runApply,
}

func init() {
	applyDatasets.Register(applyCmd)
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "Delete stale shares, update and create without asking")
	applyCmd.Flags().BoolVar(&applyDeleteManual, "delete-manual", false, "Delete manual shares that export a managed dataset without asking")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	ctx, run, err := cmdutil.StartRun(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer run.Close()

	printer := cmdutil.NewPrinter(cmd.OutOrStdout())
	start := time.Now()

	if err := applyRun(ctx, cmd, run, printer); err != nil {
		printer.Error("Terminating.")
		return err
	}

	printer.Success("Done.")
	printer.Printf("Finished in %s\n", timeutil.FormatDuration(time.Since(start)))
	return nil
}

func applyRun(ctx context.Context, cmd *cobra.Command, run *cmdutil.Run, printer *output.Printer) error {
	for _, w := range config.Warnings(run.Config) {
		printer.Warning("Warning: " + w)
	}

	snap, err := takeSnapshot(ctx, cmd, run, applyDatasets)
	if err != nil {
		return err
	}
	printDatasetReport(printer, snap.Datasets)

	opts := []reconcile.Option{
		reconcile.WithView(&cmdutil.StageView{
			Printer:     printer,
			MountPrefix: run.Config.MountPrefix,
			ShowDiff:    cmdutil.Flags.Verbose,
		}),
		reconcile.WithReporter(progress.NewConsole(printer.Writer(), printer.ColorEnabled())),
	}
	if m := prommetrics.NewReconcileMetrics(run.Config.Metrics.Textfile); m != nil {
		opts = append(opts, reconcile.WithMetrics(m))
	}

	confirmer := &cmdutil.StageConfirmer{
		AssumeYes:    applyYes,
		DeleteManual: applyDeleteManual,
		Ask:          applyAsker,
	}

	res, err := reconcile.NewEngine(run.Client, confirmer, opts...).Apply(ctx, snap.Plan)
	if err != nil {
		return err
	}

	if snap.Plan.Empty() {
		printer.Success("All shares are up to date.")
	}
	if res.ConflictsKept > 0 {
		printer.Warning(fmt.Sprintf("Kept %d manual shares exporting managed datasets", res.ConflictsKept))
	}
	return nil
}
