package client

import (
	"context"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

// Status fetches a snapshot of the server's processing guard.
func (c *Client) Status(ctx context.Context) (*core.ProcessingState, string, error) {
	var state core.ProcessingState
	correlationID, err := c.get(ctx, api.StatusRoute, &state)
	if err != nil {
		return nil, correlationID, err
	}
	return &state, correlationID, nil
}
