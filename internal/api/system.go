package api

import (
	"context"

	"github.com/shelfsense/pidash/internal/contract"
)

// SystemStatus fetches the orchestrator host metrics snapshot.
func (c *Client) SystemStatus(ctx context.Context) (*contract.SystemStatus, error) {
	raw, err := c.get(ctx, "/api/v1/system/status", "system status")
	if err != nil {
		return nil, err
	}
	status, env, err := contract.Unwrap[contract.SystemStatus](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("system status", env, err)
	}
	return &status, nil
}
