package api

import (
	"context"
	"net/http"

	"github.com/shelfsense/pidash/internal/contract"
)

// ListNetworks returns the most recent WiFi scan results.
func (c *Client) ListNetworks(ctx context.Context) ([]contract.Network, error) {
	raw, err := c.get(ctx, "/api/v1/wifi/networks", "wifi networks")
	if err != nil {
		return nil, err
	}
	list, env, err := contract.Unwrap[contract.NetworkList](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("wifi networks", env, err)
	}
	return list.Networks, nil
}

// ConnectRequest is the payload for joining a WiFi network.
type ConnectRequest struct {
	SSID string `json:"ssid"`
	PSK  string `json:"psk,omitempty"`
}

// ConnectResult reports the outcome of a connect attempt.
type ConnectResult struct {
	Connected bool   `json:"connected"`
	SSID      string `json:"ssid"`
	Address   string `json:"address,omitempty"`
}

func (r *ConnectResult) Validate() error {
	if r.SSID == "" {
		return &contract.ValidationError{
			Resource: "connect_result",
			Fields:   []contract.FieldError{{Field: "ssid", Reason: "required"}},
		}
	}
	return nil
}

// Connect asks the orchestrator to join the given network.
func (c *Client) Connect(ctx context.Context, req ConnectRequest) (*ConnectResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/v1/wifi/connect", "wifi connect", req)
	if err != nil {
		return nil, err
	}
	result, env, err := contract.Unwrap[ConnectResult](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("wifi connect", env, err)
	}
	return &result, nil
}
