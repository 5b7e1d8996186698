package client

import (
	"context"
	"fmt"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

// ForceStop clears a wedged extraction guard on the server. Requires an
// operator token.
func (c *Client) ForceStop(ctx context.Context) (bool, string, error) {
	var resp api.ForceStopResponse
	correlationID, err := c.post(ctx, api.ForceStopRoute, nil, &resp)
	if err != nil {
		return false, correlationID, err
	}
	return resp.Stopped, correlationID, nil
}

// Extractions lists recent extraction log entries. Requires an operator
// token.
func (c *Client) Extractions(ctx context.Context, limit int) ([]core.ExtractionLog, string, error) {
	path := api.ListExtractionsRoute
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var entries []core.ExtractionLog
	correlationID, err := c.get(ctx, path, &entries)
	if err != nil {
		return nil, correlationID, err
	}
	return entries, correlationID, nil
}
