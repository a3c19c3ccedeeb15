package cmdutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
	"github.com/marmos91/recursive-nfs/pkg/share"
)

// ShareTable renders shares with an AUTO column marking recursive-nfs shares.
type ShareTable struct {
	Shares      []share.Share
	MountPrefix string
}

// Headers implements output.TableRenderer.
func (t ShareTable) Headers() []string {
	return []string{"ID", "PATH NAME", "AUTO", "RO", "ENABLED", "HOSTS", "NETWORKS", "COMMENT"}
}

// Rows implements output.TableRenderer.
func (t ShareTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Shares))
	for i := range t.Shares {
		s := &t.Shares[i]
		id := "-"
		if s.HasID() {
			id = strconv.Itoa(s.ID)
		}
		rows = append(rows, []string{
			id,
			s.PathName(t.MountPrefix),
			BoolToYesNo(s.IsAutoCreated()),
			BoolToYesNo(s.RO),
			BoolToYesNo(s.Enabled),
			EmptyOr(strings.Join(s.Hosts, ","), "-"),
			EmptyOr(strings.Join(s.Networks, ","), "-"),
			EmptyOr(s.Comment, "-"),
		})
	}
	return rows
}

// changeShares returns the share each change is about: the desired share for
// creates and updates, the existing one for deletes.
func changeShares(changes []reconcile.Change) []share.Share {
	shares := make([]share.Share, 0, len(changes))
	for _, c := range changes {
		switch {
		case c.Desired != nil:
			shares = append(shares, *c.Desired)
		case c.Actual != nil:
			shares = append(shares, *c.Actual)
		}
	}
	return shares
}

// StageView prints each stage's shares before the engine asks about them.
type StageView struct {
	Printer     *output.Printer
	MountPrefix string
	// ShowDiff prints the field diff of every update.
	ShowDiff bool
}

// ShowStage implements reconcile.View.
func (v *StageView) ShowStage(stage reconcile.Stage, changes []reconcile.Change) {
	p := v.Printer
	n := len(changes)

	p.Println()
	switch stage {
	case reconcile.StageConflicts:
		p.Warning(fmt.Sprintf("Warning: There are %s active relevant NFS shares that have not been automatically created:", humanize.Comma(int64(n))))
	case reconcile.StageStale:
		p.Info(fmt.Sprintf("Note: There are %s automatically created shares that are no longer relevant and will be deleted:", humanize.Comma(int64(n))))
	case reconcile.StageUpdates:
		p.Info(fmt.Sprintf("Note: %s automatically created shares differ from the current config and will be updated:", humanize.Comma(int64(n))))
	case reconcile.StageCreates:
		p.Info(fmt.Sprintf("Attempting to create the following (%s) NFS shares:", humanize.Comma(int64(n))))
	}

	_ = output.PrintTable(p.Writer(), ShareTable{Shares: changeShares(changes), MountPrefix: v.MountPrefix})

	if v.ShowDiff && stage == reconcile.StageUpdates {
		for _, c := range changes {
			p.Printf("\n%s (-actual +desired):\n%s", c.PathName, c.Diff)
		}
	}
	p.Println()
}

// PrintRelevant prints the "N of M datasets require shares" report.
func PrintRelevant(p *output.Printer, total int, relevant []string) {
	p.Printf("%s of %s datasets require shares with the current config",
		humanize.Comma(int64(len(relevant))), humanize.Comma(int64(total)))
	if len(relevant) == 0 {
		p.Println()
		return
	}
	p.Println(":")
	for _, name := range relevant {
		p.Printf("\t- %s\n", name)
	}
}

// PlanSummary renders per-stage counts of a plan.
type PlanSummary reconcile.Summary

// Headers implements output.TableRenderer.
func (s PlanSummary) Headers() []string {
	return []string{"STAGE", "SHARES"}
}

// Rows implements output.TableRenderer.
func (s PlanSummary) Rows() [][]string {
	count := func(n int) string { return humanize.Comma(int64(n)) }
	return [][]string{
		{"conflicts (manual)", count(s.Conflicts)},
		{"stale (delete)", count(s.Stale)},
		{"updates", count(s.Updates)},
		{"unchanged", count(s.Unchanged)},
		{"creates", count(s.Creates)},
	}
}
