package client

import (
	"context"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/buildinfo"
)

// About fetches build information from the server.
func (c *Client) About(ctx context.Context) (*buildinfo.BuildInfo, string, error) {
	var info buildinfo.BuildInfo
	correlationID, err := c.get(ctx, api.AboutRoute, &info)
	if err != nil {
		return nil, correlationID, err
	}
	return &info, correlationID, nil
}
