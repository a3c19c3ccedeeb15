package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/internal/cli/health"
	"github.com/marmos91/recursive-nfs/internal/cli/output"
)

// errUnavailable makes status exit non-zero after printing its report.
var errUnavailable = errors.New("appliance API is not available")

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the appliance API is reachable",
	Long: `Probe the appliance API with the configured key and count its NFS shares.

Exits non-zero when the appliance does not answer.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	ctx, run, err := cmdutil.StartRun(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer run.Close()

	start := time.Now()
	report := health.NewReport(run.Client.BaseURL(), start)

	if err := run.Client.Ping(ctx); err != nil {
		report.Error = err.Error()
	} else if shares, err := run.Client.ListShares(ctx); err != nil {
		report.Error = err.Error()
	} else {
		report.Status = health.StatusAvailable
		report.Shares = len(shares)
		for i := range shares {
			if shares[i].IsAutoCreated() {
				report.AutoShares++
			}
		}
	}
	report.LatencyMs = time.Since(start).Milliseconds()

	out := cmd.OutOrStdout()
	if cmdutil.IsTableOutput() {
		if err := output.SimpleTable(out, report.Pairs()); err != nil {
			return err
		}
	} else if err := cmdutil.PrintOutput(out, report, false, "", nil); err != nil {
		return err
	}

	if !report.Available() {
		return errUnavailable
	}
	return nil
}
