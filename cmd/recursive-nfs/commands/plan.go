package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
)

var planDatasets cmdutil.DatasetFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what apply would change",
	Long: `Compute the reconciliation plan without changing anything on the appliance.

Examples:
  # Show the plan as tables
  recursive-nfs plan

  # Machine readable plan
  zfs list -o name | recursive-nfs plan --stdin -o json`,
	RunE: runPlan,
}

func init() {
	planDatasets.Register(planCmd)
}

// planOutput is the JSON/YAML form of a plan.
type planOutput struct {
	Summary reconcile.Summary `json:"summary" yaml:"summary"`
	Plan    *reconcile.Plan   `json:"plan" yaml:"plan"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	ctx, run, err := cmdutil.StartRun(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer run.Close()

	snap, err := takeSnapshot(ctx, cmd, run, planDatasets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != output.FormatTable {
		return cmdutil.PrintOutput(out, planOutput{Summary: snap.Plan.Summary(), Plan: snap.Plan}, false, "", nil)
	}

	printer := cmdutil.NewPrinter(out)
	printDatasetReport(printer, snap.Datasets)

	view := &cmdutil.StageView{Printer: printer, MountPrefix: cfg.MountPrefix, ShowDiff: true}
	for _, stage := range reconcile.Stages {
		if changes := snap.Plan.Stage(stage); len(changes) > 0 {
			view.ShowStage(stage, changes)
		}
	}

	printer.Header("Summary")
	if err := output.PrintTable(out, cmdutil.PlanSummary(snap.Plan.Summary())); err != nil {
		return err
	}

	if snap.Plan.Empty() {
		printer.Success("\nAll shares are up to date.")
		return nil
	}
	printer.Info("\nRun 'recursive-nfs apply' to make these changes.")
	return nil
}
