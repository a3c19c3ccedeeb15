package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/recursive-nfs/pkg/apiclient/apitest"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
	"github.com/marmos91/recursive-nfs/pkg/share"
)

const testKey = "1-testkey"

func writeConfig(t *testing.T, host string, prefixes ...string) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "logging:\n  level: ERROR\n  output: stderr\n")
	fmt.Fprintf(&b, "appliance_api:\n  host: %s\n  key: %s\n", host, testKey)
	b.WriteString("shares:\n")
	for _, p := range prefixes {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	b.WriteString("share_options:\n  default:\n    hosts: [\"10.0.0.0/24\"]\n")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func writeDatasets(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := GetRootCmd()
	resetFlags(root)
	applyAsker = nil
	t.Cleanup(func() { applyAsker = nil })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestApply_CreatesMissingShare(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	cfg := writeConfig(t, fa.Host(), "tank/media")
	datasets := writeDatasets(t, "NAME", "tank", "tank/media")

	out, err := execute(t, "", "apply", "-c", cfg, "-d", datasets, "--yes")
	require.NoError(t, err)

	assert.Contains(t, out, "Found 2 datasets in total")
	assert.Contains(t, out, "1 of 2 datasets require shares")
	assert.Contains(t, out, "Done.")
	assert.Equal(t, []string{"POST /sharing/nfs"}, fa.Mutations())

	shares := fa.Shares()
	require.Len(t, shares, 1)
	assert.Equal(t, "/mnt/tank/media", shares[0].Path)
	assert.True(t, shares[0].IsAutoCreated())
	assert.Equal(t, []string{"10.0.0.0/24"}, shares[0].Hosts)

	// A second run finds nothing to do.
	out, err = execute(t, "", "apply", "-c", cfg, "-d", datasets, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All shares are up to date.")
	assert.Equal(t, []string{"POST /sharing/nfs"}, fa.Mutations())
}

func TestApply_Stdin(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	cfg := writeConfig(t, fa.Host(), "tank")

	_, err := execute(t, "NAME\ntank/a\ntank/b\n", "apply", "-c", cfg, "--stdin", "--yes")
	require.NoError(t, err)
	assert.Len(t, fa.Shares(), 2)
}

func TestApply_MissingHeaderFailsBeforeMutations(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	cfg := writeConfig(t, fa.Host(), "tank")

	out, err := execute(t, "tank/a\n", "apply", "-c", cfg, "--stdin", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAME")
	assert.Contains(t, out, "Terminating.")
	assert.Empty(t, fa.Mutations())
}

func TestApply_DecliningStaleCleanupFails(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.AddShare(share.Share{Path: "/mnt/tank/old", Comment: share.TagAsAutoCreated(""), Enabled: true})
	cfg := writeConfig(t, fa.Host(), "tank/media")
	datasets := writeDatasets(t, "NAME", "tank/media")

	var asked []string
	root := GetRootCmd()
	resetFlags(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"apply", "-c", cfg, "-d", datasets})
	applyAsker = func(label string, defaultYes bool) (bool, error) {
		asked = append(asked, label)
		return defaultYes, nil
	}
	t.Cleanup(func() { applyAsker = nil })

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, reconcile.ErrDeclined)

	assert.Equal(t, []string{"Do you want to delete these automatically created shares?"}, asked)
	assert.Contains(t, out.String(), "Terminating.")
	assert.Empty(t, fa.Mutations())
}

func TestApply_DeleteManual(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.AddShare(share.Share{Path: "/mnt/tank/media", Comment: "by hand", Enabled: true})
	cfg := writeConfig(t, fa.Host(), "tank/media")
	datasets := writeDatasets(t, "NAME", "tank/media")

	_, err := execute(t, "", "apply", "-c", cfg, "-d", datasets, "--yes", "--delete-manual")
	require.NoError(t, err)

	assert.Equal(t, []string{"DELETE /sharing/nfs/id/1", "POST /sharing/nfs"}, fa.Mutations())
	shares := fa.Shares()
	require.Len(t, shares, 1)
	assert.True(t, shares[0].IsAutoCreated())
}

func TestApply_KeptManualShareFailsCreate(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.AddShare(share.Share{Path: "/mnt/tank/media", Comment: "by hand", Enabled: true})
	cfg := writeConfig(t, fa.Host(), "tank/media")
	datasets := writeDatasets(t, "NAME", "tank/media")

	_, err := execute(t, "", "apply", "-c", cfg, "-d", datasets, "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Equal(t, []string{"POST /sharing/nfs"}, fa.Mutations())
}

func TestApply_UnavailableAppliance(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	cfg := writeConfig(t, fa.Host(), "tank")
	fa.Close()

	_, err := execute(t, "", "apply", "-c", cfg, "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestPlan_JSON(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.SetDatasets("tank/b", "tank/a", "pool")
	fa.AddShare(share.Share{Path: "/mnt/tank/gone", Comment: share.TagAsAutoCreated(""), Enabled: true})
	cfg := writeConfig(t, fa.Host(), "tank")

	out, err := execute(t, "", "plan", "-c", cfg, "-o", "json")
	require.NoError(t, err)

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, reconcile.Summary{Relevant: 2, Stale: 1, Creates: 2}, got.Summary)
	require.Len(t, got.Plan.Creates, 2)
	assert.Equal(t, "tank/a", got.Plan.Creates[0].PathName, "API datasets are sorted")
	assert.Empty(t, fa.Mutations())
}

func TestPlan_Table(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	cfg := writeConfig(t, fa.Host(), "tank")
	datasets := writeDatasets(t, "NAME", "tank/a")

	out, err := execute(t, "", "plan", "-c", cfg, "-d", datasets)
	require.NoError(t, err)
	assert.Contains(t, out, "Attempting to create the following (1) NFS shares:")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "recursive-nfs apply")
	assert.Empty(t, fa.Mutations())
}

func TestDatasets(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.SetDatasets("tank/media", "pool", "tank")
	cfg := writeConfig(t, fa.Host(), "tank")

	out, err := execute(t, "", "datasets", "-c", cfg, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Source   string   `json:"source"`
		Relevant []string `json:"relevant"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "api", got.Source)
	assert.Equal(t, []string{"tank", "tank/media"}, got.Relevant)

	out, err = execute(t, "", "datasets", "-c", cfg, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "pool")
	assert.Contains(t, out, "/mnt/tank/media")
}

func TestSharesList(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.AddShare(share.Share{Path: "/mnt/tank/a", Comment: share.TagAsAutoCreated("")})
	fa.AddShare(share.Share{Path: "/mnt/tank/b", Comment: "manual"})
	cfg := writeConfig(t, fa.Host(), "tank")

	out, err := execute(t, "", "shares", "list", "-c", cfg, "--managed", "-o", "json")
	require.NoError(t, err)
	var managed []share.Share
	require.NoError(t, json.Unmarshal([]byte(out), &managed))
	require.Len(t, managed, 1)
	assert.Equal(t, "/mnt/tank/a", managed[0].Path)

	out, err = execute(t, "", "shares", "list", "-c", cfg, "tank/b")
	require.NoError(t, err)
	assert.Contains(t, out, "tank/b")
	assert.NotContains(t, out, "tank/a")

	out, err = execute(t, "", "shares", "list", "-c", cfg, "missing")
	require.NoError(t, err)
	assert.Contains(t, out, "No shares found.")
}

func TestStatus(t *testing.T) {
	fa := apitest.NewAppliance(t, testKey)
	fa.AddShare(share.Share{Path: "/mnt/tank/a", Comment: share.TagAsAutoCreated("")})
	cfg := writeConfig(t, fa.Host(), "tank")

	out, err := execute(t, "", "status", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "available")

	fa.Close()
	out, err = execute(t, "", "status", "-c", cfg, "-o", "json")
	require.ErrorIs(t, err, errUnavailable)
	assert.Contains(t, out, `"status": "unavailable"`)
}

func TestConfigCommands(t *testing.T) {
	cfg := writeConfig(t, "https://nas.local", "tank")

	out, err := execute(t, "", "config", "validate", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation: OK")
	assert.Contains(t, out, "https://nas.local/api/v2.0")

	out, err = execute(t, "", "config", "show", "-c", cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, testKey)
	assert.Contains(t, out, "********")

	out, err = execute(t, "", "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"share_options"`)
	assert.Contains(t, out, `"appliance_api"`)

	path := filepath.Join(t.TempDir(), "new", "config.yaml")
	out, err = execute(t, "", "config", "init", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
