package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shelfsense/pidash/internal/contract"
)

// LatestAnalysis returns the most recent inventory analysis run for a
// session.
//
// Two recoverable outcomes are deliberately not errors:
//   - 404 means "no analysis yet" and returns (nil, nil): an empty state,
//     never an error banner.
//   - 503 / not-yet-deployed means the analysis subsystem is absent; that
//     surfaces as a CodeUnavailable error the caller renders as a disabled
//     panel, distinct from a failure.
func (c *Client) LatestAnalysis(ctx context.Context, sessionID string) (*contract.InventoryAnalysisRun, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s/analysis/latest", url.PathEscape(sessionID))
	raw, err := c.get(ctx, path, "latest analysis")
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	run, env, err := contract.Unwrap[contract.InventoryAnalysisRun](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("latest analysis", env, err)
	}
	return &run, nil
}

// ReviewRequest is the payload for submitting an operator review.
type ReviewRequest struct {
	Decision   contract.ReviewDecision `json:"decision"`
	ReviewedBy string                  `json:"reviewed_by"`
	Notes      string                  `json:"notes,omitempty"`
}

// SubmitReview attaches an operator review to an analysis run. The
// orchestrator responds with the updated run, re-validated like any fetch.
func (c *Client) SubmitReview(ctx context.Context, runID string, review ReviewRequest) (*contract.InventoryAnalysisRun, error) {
	path := fmt.Sprintf("/api/v1/analyses/%s/review", url.PathEscape(runID))
	raw, err := c.do(ctx, http.MethodPost, path, "analysis review", review)
	if err != nil {
		return nil, err
	}
	run, env, err := contract.Unwrap[contract.InventoryAnalysisRun](raw, c.unwrapOpts())
	if err != nil {
		return nil, c.validationError("analysis review", env, err)
	}
	return &run, nil
}
