package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shelfsense/pidash/internal/contract"
)

// RefreshEvidenceURL requests a fresh presigned URL for a stored evidence
// object after the previous one expired or failed to load.
func (c *Client) RefreshEvidenceURL(ctx context.Context, objectID string) (*contract.PresignedURL, error) {
	path := fmt.Sprintf("/api/v1/evidence/%s/url", url.PathEscape(objectID))
	raw, err := c.get(ctx, path, "evidence url")
	if err != nil {
		return nil, err
	}
	presigned, env, err := contract.Unwrap[contract.PresignedURL](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("evidence url", env, err)
	}
	return &presigned, nil
}
