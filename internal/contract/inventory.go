package contract

import "time"

// AnalysisStatus is the lifecycle state of one inventory diff computation.
type AnalysisStatus string

const (
	AnalysisQueued     AnalysisStatus = "queued"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisDone       AnalysisStatus = "done"
	AnalysisError      AnalysisStatus = "error"
)

func (s AnalysisStatus) Valid() bool {
	switch s {
	case AnalysisQueued, AnalysisProcessing, AnalysisDone, AnalysisError:
		return true
	}
	return false
}

// Terminal reports whether the run will not transition further.
func (s AnalysisStatus) Terminal() bool {
	return s == AnalysisDone || s == AnalysisError
}

// DeltaEntry is one item-level inventory change produced by an analysis run.
type DeltaEntry struct {
	Name        string  `json:"name"`
	BeforeCount int     `json:"before_count"`
	AfterCount  int     `json:"after_count"`
	Change      int     `json:"change"`
	Confidence  float64 `json:"confidence"`
}

func (d *DeltaEntry) Validate() error {
	ve := &ValidationError{Resource: "delta_entry"}
	if d.Name == "" {
		ve.addf("name", "required")
	}
	if d.Change != d.AfterCount-d.BeforeCount {
		ve.addf("change", "arithmetic mismatch: change=%d but after-before=%d",
			d.Change, d.AfterCount-d.BeforeCount)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		ve.addf("confidence", "out of range [0,1]: %g", d.Confidence)
	}
	return ve.orNil()
}

// ReviewDecision is an operator's verdict on an analysis run.
type ReviewDecision string

const (
	ReviewApproved ReviewDecision = "approved"
	ReviewRejected ReviewDecision = "rejected"
)

func (d ReviewDecision) Valid() bool {
	return d == ReviewApproved || d == ReviewRejected
}

// Review is the operator review attached to a completed analysis run.
type Review struct {
	Decision   ReviewDecision `json:"decision"`
	ReviewedBy string         `json:"reviewed_by"`
	Notes      string         `json:"notes,omitempty"`
	ReviewedAt time.Time      `json:"reviewed_at"`
}

func (r *Review) Validate() error {
	ve := &ValidationError{Resource: "review"}
	if !r.Decision.Valid() {
		ve.addf("decision", "unrecognized value %q", string(r.Decision))
	}
	if r.ReviewedBy == "" {
		ve.addf("reviewed_by", "required")
	}
	return ve.orNil()
}

// InventoryAnalysisRun is one inventory diff computation over a session's
// before/after evidence.
type InventoryAnalysisRun struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Status    AnalysisStatus `json:"status"`
	Deltas    []DeltaEntry   `json:"deltas"`
	Review    *Review        `json:"review,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (r *InventoryAnalysisRun) Validate() error {
	ve := &ValidationError{Resource: "inventory_analysis_run"}
	if r.ID == "" {
		ve.addf("id", "required")
	}
	if r.SessionID == "" {
		ve.addf("session_id", "required")
	}
	if !r.Status.Valid() {
		ve.addf("status", "unrecognized value %q", string(r.Status))
	}
	for i := range r.Deltas {
		if err := r.Deltas[i].Validate(); err != nil {
			ve.addf("deltas", "entry %d: %v", i, err)
		}
	}
	if r.Review != nil {
		if err := r.Review.Validate(); err != nil {
			ve.addf("review", "%v", err)
		}
	}
	return ve.orNil()
}

// DisplayStatus derives the label shown for an analysis run. "Approved" is a
// presentation derivation, not a backend status: a done run with a review
// displays as Approved while the raw status field stays "done".
func DisplayStatus(run InventoryAnalysisRun) string {
	switch run.Status {
	case AnalysisDone:
		if run.Review != nil {
			if run.Review.Decision == ReviewRejected {
				return "Rejected"
			}
			return "Approved"
		}
		return "Completed"
	case AnalysisQueued:
		return "Queued"
	case AnalysisProcessing:
		return "Processing"
	case AnalysisError:
		return "Error"
	default:
		return string(run.Status)
	}
}
