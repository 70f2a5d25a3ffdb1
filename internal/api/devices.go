package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/shelfsense/pidash/internal/contract"
	"github.com/shelfsense/pidash/internal/normalize"
)

// ListCameras returns the cameras attached to the orchestrator.
func (c *Client) ListCameras(ctx context.Context) ([]contract.Camera, error) {
	raw, err := c.get(ctx, "/api/v1/cameras", "cameras")
	if err != nil {
		return nil, err
	}
	list, env, err := contract.Unwrap[contract.CameraList](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("cameras", env, err)
	}
	return list.Cameras, nil
}

// TriggerCapture asks a camera to take an evidence capture now.
// The orchestrator answers with the created capture record.
func (c *Client) TriggerCapture(ctx context.Context, cameraID string) (*contract.EvidenceCapture, error) {
	path := fmt.Sprintf("/api/v1/cameras/%s/capture", url.PathEscape(cameraID))
	raw, err := c.do(ctx, http.MethodPost, path, "camera capture", nil)
	if err != nil {
		return nil, err
	}
	capture, env, err := contract.Unwrap[contract.EvidenceCapture](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("camera capture", env, err)
	}
	return &capture, nil
}

// DoorStatus returns the container door state.
func (c *Client) DoorStatus(ctx context.Context) (*contract.DoorState, error) {
	raw, err := c.get(ctx, "/api/v1/door/status", "door status")
	if err != nil {
		return nil, err
	}
	state, env, err := contract.Unwrap[contract.DoorState](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("door status", env, err)
	}
	return &state, nil
}

// DoorAction is a door command accepted by the orchestrator.
type DoorAction string

const (
	DoorActionUnlock DoorAction = "unlock"
	DoorActionLock   DoorAction = "lock"
)

// SetDoor sends a lock/unlock command and returns the resulting door state.
func (c *Client) SetDoor(ctx context.Context, action DoorAction) (*contract.DoorState, error) {
	body := map[string]string{"action": string(action)}
	raw, err := c.do(ctx, http.MethodPost, "/api/v1/door/command", "door command", body)
	if err != nil {
		return nil, err
	}
	state, env, err := contract.Unwrap[contract.DoorState](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("door command", env, err)
	}
	return &state, nil
}

// ListCandidates returns provisioning candidates seen on the local network.
// Legacy endpoint: the response is un-enveloped and the list field name has
// varied across orchestrator releases, so it goes through the normalization
// helpers instead of the strict envelope path. Entries that fail validation
// are dropped with a warning rather than failing the whole list.
func (c *Client) ListCandidates(ctx context.Context) ([]contract.ProvisioningCandidate, error) {
	raw, err := c.get(ctx, "/api/v1/provisioning/candidates", "provisioning candidates")
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, c.validationError("provisioning candidates", nil,
			fmt.Errorf("decode response: %w", err))
	}

	items := normalize.ExtractList(decoded, "candidates", "devices", "items", "data")
	candidates := make([]contract.ProvisioningCandidate, 0, len(items))
	for i, item := range items {
		itemRaw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		cand, err := contract.Parse[contract.ProvisioningCandidate](itemRaw)
		if err != nil {
			c.logger.Warn("dropping invalid provisioning candidate",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
