package apiclient

import (
	"context"
	"fmt"
)

const datasetsRoute = "/pool/dataset"

type datasetRecord struct {
	ID string `json:"id"`
}

// ListDatasets returns the names of all datasets, in the order the appliance
// reports them, without duplicates.
func (c *Client) ListDatasets(ctx context.Context) ([]string, error) {
	records, err := listResources[datasetRecord](ctx, c, datasetsRoute)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		names = append(names, r.ID)
	}
	return names, nil
}
