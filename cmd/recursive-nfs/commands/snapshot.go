package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/internal/logger"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
	"github.com/marmos91/recursive-nfs/pkg/share"
)

// snapshot is everything a run reads before it changes anything: the dataset
// list, one listing of the appliance's shares and the plan derived from both.
type snapshot struct {
	Datasets *cmdutil.Datasets
	Shares   []share.Share
	Plan     *reconcile.Plan
}

func takeSnapshot(ctx context.Context, cmd *cobra.Command, run *cmdutil.Run, flags cmdutil.DatasetFlags) (*snapshot, error) {
	if err := run.EnsureAvailable(ctx); err != nil {
		return nil, err
	}

	ds, err := cmdutil.LoadDatasets(ctx, cmd, run, flags)
	if err != nil {
		return nil, err
	}

	shares, err := run.Client.ListShares(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list NFS shares: %w", err)
	}
	logger.DebugCtx(ctx, "Shares listed", logger.Count(len(shares)))

	plan, err := reconcile.BuildPlan(ds.Relevant, shares, run.Config.ShareGenerator())
	if err != nil {
		return nil, fmt.Errorf("failed to build plan: %w", err)
	}
	return &snapshot{Datasets: ds, Shares: shares, Plan: plan}, nil
}

// printDatasetReport prints the dataset totals that precede every plan.
func printDatasetReport(p *output.Printer, ds *cmdutil.Datasets) {
	p.Printf("Found %s datasets in total\n", humanize.Comma(int64(len(ds.All))))
	cmdutil.PrintRelevant(p, len(ds.All), ds.Relevant)
	if len(ds.Relevant) == 0 {
		p.Warning("Note: There are no relevant datasets available to create shares for")
	}
}
