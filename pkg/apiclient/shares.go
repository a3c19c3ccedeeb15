package apiclient

import (
	"context"
	"fmt"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

const (
	sharesRoute = "/sharing/nfs"
	shareRoute  = "/sharing/nfs/id/%d"
)

// ListShares returns every NFS share on the appliance.
func (c *Client) ListShares(ctx context.Context) ([]share.Share, error) {
	shares, err := listResources[share.Share](ctx, c, sharesRoute)
	if err != nil {
		return nil, fmt.Errorf("failed to list NFS shares: %w", err)
	}
	return shares, nil
}

// CreateShare creates a share and returns the record stored by the appliance.
func (c *Client) CreateShare(ctx context.Context, req *share.ShareRequest) (*share.Share, error) {
	return createResource[share.Share](ctx, c, sharesRoute, req)
}

// UpdateShare replaces the settable fields of share id.
func (c *Client) UpdateShare(ctx context.Context, id int, req *share.ShareRequest) (*share.Share, error) {
	return updateResource[share.Share](ctx, c, shareRoute, req, id)
}

// DeleteShare removes share id.
func (c *Client) DeleteShare(ctx context.Context, id int) error {
	return deleteResource(ctx, c, shareRoute, id)
}
