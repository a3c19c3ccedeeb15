// Package shares implements commands that inspect the appliance's NFS shares.
package shares

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for share inspection.
var Cmd = &cobra.Command{
	Use:   "shares",
	Short: "NFS share inspection",
	Long: `Inspect the NFS shares on the appliance.

Examples:
  # List all shares, marking the ones managed by recursive-nfs
  recursive-nfs shares list

  # Only managed shares, as JSON
  recursive-nfs shares list --managed -o json`,
}

func init() {
	Cmd.AddCommand(listCmd)
}
