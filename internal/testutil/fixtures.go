// Package testutil provides fixture builders for contract types.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfsense/pidash/internal/contract"
)

// NewSession returns a Session with sensible defaults, suitable for test
// fixtures. Override individual fields via options as needed.
func NewSession(opts ...func(*contract.Session)) contract.Session {
	s := contract.Session{
		ID:            uuid.New().String(),
		Kind:          contract.KindInventory,
		Status:        contract.SessionActive,
		CreatedAt:     time.Now().UTC().Add(-5 * time.Minute),
		UpdatedAt:     time.Now().UTC(),
		CaptureCount:  2,
		AnalysisCount: 1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithID pins the session id instead of a generated one.
func WithID(id string) func(*contract.Session) {
	return func(s *contract.Session) { s.ID = id }
}

// WithStatus sets the session status.
func WithStatus(status contract.SessionStatus) func(*contract.Session) {
	return func(s *contract.Session) { s.Status = status }
}

// WithKind sets the session kind.
func WithKind(kind contract.SessionKind) func(*contract.Session) {
	return func(s *contract.Session) { s.Kind = kind }
}

// WithCreatedAt sets the session's created_at timestamp.
func WithCreatedAt(t time.Time) func(*contract.Session) {
	return func(s *contract.Session) { s.CreatedAt = t }
}

// WithUpdatedAt sets the session's updated_at timestamp.
func WithUpdatedAt(t time.Time) func(*contract.Session) {
	return func(s *contract.Session) { s.UpdatedAt = t }
}

// NewCapture returns an EvidenceCapture with sensible defaults.
func NewCapture(sessionID string, opts ...func(*contract.EvidenceCapture)) contract.EvidenceCapture {
	expires := time.Now().UTC().Add(time.Hour)
	c := contract.EvidenceCapture{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Status:       contract.CaptureUploaded,
		ImageURL:     "https://store.local/captures/" + uuid.New().String() + ".jpg",
		ThumbnailURL: "https://store.local/thumbs/" + uuid.New().String() + ".jpg",
		ExpiresAt:    &expires,
		CapturedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithCaptureStatus sets the capture status.
func WithCaptureStatus(status contract.CaptureStatus) func(*contract.EvidenceCapture) {
	return func(c *contract.EvidenceCapture) { c.Status = status }
}

// WithExpiry sets the capture's presigned URL deadline.
func WithExpiry(t time.Time) func(*contract.EvidenceCapture) {
	return func(c *contract.EvidenceCapture) { c.ExpiresAt = &t }
}

// NewAnalysisRun returns an InventoryAnalysisRun with one coherent delta.
func NewAnalysisRun(sessionID string, opts ...func(*contract.InventoryAnalysisRun)) contract.InventoryAnalysisRun {
	r := contract.InventoryAnalysisRun{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Status:    contract.AnalysisDone,
		Deltas: []contract.DeltaEntry{
			{Name: "oat milk 1L", BeforeCount: 6, AfterCount: 4, Change: -2, Confidence: 0.93},
		},
		CreatedAt: time.Now().UTC().Add(-time.Minute),
		UpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithAnalysisStatus sets the run status.
func WithAnalysisStatus(status contract.AnalysisStatus) func(*contract.InventoryAnalysisRun) {
	return func(r *contract.InventoryAnalysisRun) { r.Status = status }
}

// WithReview attaches an operator review to the run.
func WithReview(decision contract.ReviewDecision) func(*contract.InventoryAnalysisRun) {
	return func(r *contract.InventoryAnalysisRun) {
		r.Review = &contract.Review{
			Decision:   decision,
			ReviewedBy: "operator",
			ReviewedAt: time.Now().UTC(),
		}
	}
}
