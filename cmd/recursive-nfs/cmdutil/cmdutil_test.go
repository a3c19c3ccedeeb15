package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/internal/cli/prompt"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
	"github.com/marmos91/recursive-nfs/pkg/share"
)

func question(stage reconcile.Stage) reconcile.Question {
	return reconcile.Question{Stage: stage, DefaultYes: !stage.Deletes(), Label: string(stage)}
}

func TestStageConfirmer(t *testing.T) {
	ctx := context.Background()
	neverAsk := func(string, bool) (bool, error) {
		t.Fatal("prompt must not be shown")
		return false, nil
	}

	t.Run("AssumeYesKeepsManualShares", func(t *testing.T) {
		c := &StageConfirmer{AssumeYes: true, Ask: neverAsk}
		for _, stage := range reconcile.Stages {
			ok, err := c.Confirm(ctx, question(stage))
			require.NoError(t, err)
			assert.Equal(t, stage != reconcile.StageConflicts, ok, "stage %s", stage)
		}
	})

	t.Run("DeleteManual", func(t *testing.T) {
		c := &StageConfirmer{AssumeYes: true, DeleteManual: true, Ask: neverAsk}
		ok, err := c.Confirm(ctx, question(reconcile.StageConflicts))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("InteractiveUsesAsker", func(t *testing.T) {
		var labels []string
		c := &StageConfirmer{Ask: func(label string, defaultYes bool) (bool, error) {
			labels = append(labels, label)
			return defaultYes, nil
		}}

		ok, err := c.Confirm(ctx, question(reconcile.StageStale))
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = c.Confirm(ctx, question(reconcile.StageCreates))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"stale", "creates"}, labels)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := (&StageConfirmer{AssumeYes: true}).Confirm(cctx, question(reconcile.StageCreates))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReaderAsker(t *testing.T) {
	var out bytes.Buffer
	ask := ReaderAsker(strings.NewReader("maybe\nY\n\n"), &out)

	ok, err := ask("Create?", false)
	require.NoError(t, err)
	assert.True(t, ok, "invalid answers are asked again")
	assert.Equal(t, 2, strings.Count(out.String(), "Create? [y/N]: "))

	ok, err = ask("Update?", true)
	require.NoError(t, err)
	assert.True(t, ok, "empty answer selects the default")

	_, err = ask("Delete?", false)
	assert.True(t, prompt.IsAborted(err))
}

func TestShareTable(t *testing.T) {
	table := ShareTable{
		MountPrefix: share.DefaultMountPrefix,
		Shares: []share.Share{
			{ID: 3, Path: "/mnt/tank/a", Comment: share.TagAsAutoCreated(""), Hosts: []string{"h1", "h2"}, Enabled: true},
			{Path: "/mnt/tank/b", RO: true},
		},
	}

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(table.Headers()))
	assert.Equal(t, []string{"3", "tank/a", "yes", "no", "yes", "h1,h2", "-"}, rows[0][:7])
	assert.Equal(t, []string{"-", "tank/b", "no", "yes", "no", "-", "-", "-"}, rows[1])
}

func TestStageView(t *testing.T) {
	var out bytes.Buffer
	view := &StageView{
		Printer:     output.NewPrinter(&out, output.FormatTable, false),
		MountPrefix: share.DefaultMountPrefix,
		ShowDiff:    true,
	}

	view.ShowStage(reconcile.StageUpdates, []reconcile.Change{{
		Stage:    reconcile.StageUpdates,
		PathName: "tank/a",
		Actual:   &share.Share{ID: 1, Path: "/mnt/tank/a"},
		Desired:  &share.Share{ID: 1, Path: "/mnt/tank/a", RO: true},
		Diff:     "-RO: false\n+RO: true\n",
	}})

	s := out.String()
	assert.Contains(t, s, "1 automatically created shares differ")
	assert.Contains(t, s, "tank/a")
	assert.Contains(t, s, "+RO: true")
}

func TestPrintRelevant(t *testing.T) {
	var out bytes.Buffer
	p := output.NewPrinter(&out, output.FormatTable, false)

	PrintRelevant(p, 1234, []string{"tank/a"})
	assert.Equal(t, "1 of 1,234 datasets require shares with the current config:\n\t- tank/a\n", out.String())

	out.Reset()
	PrintRelevant(p, 2, nil)
	assert.Equal(t, "0 of 2 datasets require shares with the current config\n", out.String())
}

func TestPrintOutput(t *testing.T) {
	t.Cleanup(func() { Flags.Output = "table" })
	table := output.NewTableData("NAME")
	table.AddRow("tank")

	var out bytes.Buffer
	Flags.Output = "json"
	require.NoError(t, PrintOutput(&out, []string{"tank"}, false, "", table))
	assert.JSONEq(t, `["tank"]`, out.String())

	out.Reset()
	Flags.Output = "table"
	require.NoError(t, PrintOutput(&out, nil, true, "Nothing here.", table))
	assert.Equal(t, "Nothing here.\n", out.String())

	Flags.Output = "xml"
	assert.Error(t, PrintOutput(&out, nil, true, "", table))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "yes", BoolToYesNo(true))
	assert.Equal(t, "no", BoolToYesNo(false))
	assert.Equal(t, "-", EmptyOr("", "-"))
	assert.Equal(t, "x", EmptyOr("x", "-"))

	assert.NoError(t, HandleAbort(prompt.ErrAborted))
	boom := errors.New("boom")
	assert.Equal(t, boom, HandleAbort(boom))
}
