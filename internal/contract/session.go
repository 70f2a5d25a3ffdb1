package contract

import "time"

// SessionStatus is the orchestrator-owned lifecycle state of a session.
// The dashboard never computes a next status, only displays the current one.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Valid reports whether the status is in the closed set.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionActive, SessionCompleted, SessionFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

// SessionKind distinguishes the unit of work a session represents.
type SessionKind string

const (
	KindProvisioning SessionKind = "provisioning"
	KindInventory    SessionKind = "inventory"
	KindDiagnostic   SessionKind = "diagnostic"
)

func (k SessionKind) Valid() bool {
	switch k {
	case KindProvisioning, KindInventory, KindDiagnostic:
		return true
	}
	return false
}

// StaleAfter is the fixed threshold after which a non-terminal session with no
// updates is flagged stale in the UI.
const StaleAfter = 10 * time.Minute

// Session is one provisioning, inventory, or diagnostic unit of work.
type Session struct {
	ID            string        `json:"id"`
	Kind          SessionKind   `json:"kind"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CaptureCount  int           `json:"capture_count"`
	AnalysisCount int           `json:"analysis_count"`
}

// Stale reports whether a non-terminal session has gone quiet past the
// threshold. Display derivation only; the status field is never touched.
func (s Session) Stale(now time.Time) bool {
	return !s.Status.Terminal() && now.Sub(s.UpdatedAt) > StaleAfter
}

func (s *Session) Validate() error {
	ve := &ValidationError{Resource: "session"}
	if s.ID == "" {
		ve.addf("id", "required")
	}
	if !s.Status.Valid() {
		ve.addf("status", "unrecognized value %q", string(s.Status))
	}
	if !s.Kind.Valid() {
		ve.addf("kind", "unrecognized value %q", string(s.Kind))
	}
	if s.CreatedAt.IsZero() {
		ve.addf("created_at", "required")
	}
	if s.CaptureCount < 0 {
		ve.addf("capture_count", "must be non-negative, got %d", s.CaptureCount)
	}
	if s.AnalysisCount < 0 {
		ve.addf("analysis_count", "must be non-negative, got %d", s.AnalysisCount)
	}
	return ve.orNil()
}

// SessionList is the payload of the session listing endpoint.
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

func (l *SessionList) Validate() error {
	ve := &ValidationError{Resource: "session_list"}
	for i := range l.Sessions {
		if err := l.Sessions[i].Validate(); err != nil {
			ve.addf("sessions", "entry %d: %v", i, err)
		}
	}
	return ve.orNil()
}
