package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shelfsense/pidash/internal/contract"
)

// SessionFilter narrows session listings.
type SessionFilter struct {
	Status contract.SessionStatus
	Kind   contract.SessionKind
	Limit  int
}

// CacheKey returns a stable cache key fragment for this filter.
func (f SessionFilter) CacheKey() string {
	return fmt.Sprintf("status=%s&kind=%s&limit=%d", f.Status, f.Kind, f.Limit)
}

func (f SessionFilter) query() string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Kind != "" {
		q.Set("kind", string(f.Kind))
	}
	if f.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", f.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListSessions returns sessions matching the filter.
func (c *Client) ListSessions(ctx context.Context, filter SessionFilter) ([]contract.Session, error) {
	raw, err := c.get(ctx, "/api/v1/sessions"+filter.query(), "sessions")
	if err != nil {
		return nil, err
	}
	list, env, err := contract.Unwrap[contract.SessionList](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("sessions", env, err)
	}
	return list.Sessions, nil
}

// GetSession returns one session by id.
func (c *Client) GetSession(ctx context.Context, id string) (*contract.Session, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s", url.PathEscape(id))
	raw, err := c.get(ctx, path, "session")
	if err != nil {
		return nil, err
	}
	session, env, err := contract.Unwrap[contract.Session](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("session", env, err)
	}
	return &session, nil
}

// ListEvidence returns the evidence captures for a session.
func (c *Client) ListEvidence(ctx context.Context, sessionID string) ([]contract.EvidenceCapture, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s/evidence", url.PathEscape(sessionID))
	raw, err := c.get(ctx, path, "evidence")
	if err != nil {
		return nil, err
	}
	list, env, err := contract.Unwrap[contract.EvidenceList](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("evidence", env, err)
	}
	return list.Captures, nil
}
