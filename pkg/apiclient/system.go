package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marmos91/recursive-nfs/internal/logger"
)

const pingRoute = "/core/ping"

// Ping calls the appliance's liveness endpoint, which answers "pong".
func (c *Client) Ping(ctx context.Context) error {
	var reply string
	if err := c.do(ctx, http.MethodGet, pingRoute, pingRoute, nil, &reply, any2xx); err != nil {
		return err
	}
	if reply != "pong" {
		return fmt.Errorf("unexpected ping reply %q", reply)
	}
	return nil
}

// CheckAvailability reports whether the appliance answers Ping. Errors are
// logged, not returned.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	if err := c.Ping(ctx); err != nil {
		logger.WarnCtx(ctx, "appliance is not available", logger.KeyURL, c.baseURL, logger.Err(err))
		return false
	}
	return true
}
