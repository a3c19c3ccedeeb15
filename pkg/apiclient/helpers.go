package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// Typed wrappers around Client.do. route is the path template, args fill it.

func listResources[T any](ctx context.Context, c *Client, route string) ([]T, error) {
	var results []T
	if err := c.do(ctx, http.MethodGet, route, route, nil, &results, any2xx); err != nil {
		return nil, err
	}
	return results, nil
}

// createResource POSTs body to route. Only 200 counts as success.
func createResource[T any](ctx context.Context, c *Client, route string, body any) (*T, error) {
	var result T
	if err := c.do(ctx, http.MethodPost, route, route, body, &result, onlyOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// updateResource PUTs body to the resource. Only 200 counts as success.
func updateResource[T any](ctx context.Context, c *Client, route string, body any, args ...any) (*T, error) {
	var result T
	if err := c.do(ctx, http.MethodPut, route, resourcePath(route, args...), body, &result, onlyOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func deleteResource(ctx context.Context, c *Client, route string, args ...any) error {
	return c.do(ctx, http.MethodDelete, route, resourcePath(route, args...), nil, nil, any2xx)
}

// resourcePath fills a route template, e.g. resourcePath("/sharing/nfs/id/%d", 7).
func resourcePath(route string, args ...any) string {
	if len(args) == 0 {
		return route
	}
	return fmt.Sprintf(route, args...)
}
