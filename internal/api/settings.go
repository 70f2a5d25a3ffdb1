package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shelfsense/pidash/internal/contract"
)

// ListConfig returns every orchestrator configuration entry.
func (c *Client) ListConfig(ctx context.Context) ([]contract.ConfigEntry, error) {
	raw, err := c.get(ctx, "/api/v1/config", "config")
	if err != nil {
		return nil, err
	}
	list, env, err := contract.Unwrap[contract.ConfigList](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("config", env, err)
	}
	return list.Entries, nil
}

// UpdateConfig writes one configuration value. The orchestrator echoes the
// updated entry, which is re-validated like any other response.
func (c *Client) UpdateConfig(ctx context.Context, key, value string) (*contract.ConfigEntry, error) {
	path := fmt.Sprintf("/api/v1/config/%s", url.PathEscape(key))
	body := map[string]string{"value": value}
	raw, err := c.do(ctx, http.MethodPut, path, "config update", body)
	if err != nil {
		return nil, err
	}
	entry, env, err := contract.Unwrap[contract.ConfigEntry](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("config update", env, err)
	}
	return &entry, nil
}
