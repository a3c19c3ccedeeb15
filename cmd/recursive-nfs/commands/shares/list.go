package shares

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/recursive-nfs/cmd/recursive-nfs/cmdutil"
	"github.com/marmos91/recursive-nfs/pkg/share"
)

var (
	listManaged bool
	listManual  bool
)

var listCmd = &cobra.Command{
	Use:   "list [path-name...]",
	Short: "List NFS shares",
	Long: `List the NFS shares on the appliance.

Path names are dataset names relative to the mount prefix; when given, only
shares exporting them are listed.

Examples:
  # List shares as table
  recursive-nfs shares list

  # Shares exporting two datasets
  recursive-nfs shares list tank/media tank/backup

  # List as YAML
  recursive-nfs shares list -o yaml`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listManaged, "managed", false, "Only shares created by recursive-nfs")
	listCmd.Flags().BoolVar(&listManual, "manual", false, "Only shares not created by recursive-nfs")
	listCmd.MarkFlagsMutuallyExclusive("managed", "manual")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	ctx, run, err := cmdutil.StartRun(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer run.Close()

	shares, err := run.Client.ListShares(ctx)
	if err != nil {
		return fmt.Errorf("failed to list NFS shares: %w", err)
	}

	shares = filterShares(shares, cfg.MountPrefix, args)
	if shares == nil {
		shares = []share.Share{}
	}

	return cmdutil.PrintOutput(cmd.OutOrStdout(), shares, len(shares) == 0, "No shares found.",
		cmdutil.ShareTable{Shares: shares, MountPrefix: cfg.MountPrefix})
}

func filterShares(shares []share.Share, mountPrefix string, pathNames []string) []share.Share {
	if len(pathNames) > 0 {
		set := make(map[string]struct{}, len(pathNames))
		for _, name := range pathNames {
			set[name] = struct{}{}
		}
		shares = share.FilterByPathName(shares, mountPrefix, set, true)
	}

	if !listManaged && !listManual {
		return shares
	}
	filtered := make([]share.Share, 0, len(shares))
	for i := range shares {
		if shares[i].IsAutoCreated() == listManaged {
			filtered = append(filtered, shares[i])
		}
	}
	return filtered
}
