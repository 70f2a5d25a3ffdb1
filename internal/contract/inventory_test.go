package contract

import (
	"testing"
	"time"
)

func validRun() InventoryAnalysisRun {
	return InventoryAnalysisRun{
		ID:        "run-1",
		SessionID: "sess-1",
		Status:    AnalysisDone,
		Deltas: []DeltaEntry{
			{Name: "oat milk", BeforeCount: 4, AfterCount: 2, Change: -2, Confidence: 0.93},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestDeltaArithmeticInvariant(t *testing.T) {
	ok := DeltaEntry{Name: "espresso pods", BeforeCount: 10, AfterCount: 7, Change: -3, Confidence: 0.8}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid delta rejected: %v", err)
	}

	bad := DeltaEntry{Name: "espresso pods", BeforeCount: 10, AfterCount: 7, Change: 3, Confidence: 0.8}
	if err := bad.Validate(); err == nil {
		t.Fatal("delta with change != after-before accepted")
	}
}

func TestDeltaConfidenceRange(t *testing.T) {
	for _, c := range []float64{-0.1, 1.01, 2} {
		d := DeltaEntry{Name: "x", Confidence: c}
		if err := d.Validate(); err == nil {
			t.Errorf("confidence %g accepted", c)
		}
	}
	for _, c := range []float64{0, 0.5, 1} {
		d := DeltaEntry{Name: "x", Confidence: c}
		if err := d.Validate(); err != nil {
			t.Errorf("confidence %g rejected: %v", c, err)
		}
	}
}

func TestDisplayStatusDerivation(t *testing.T) {
	run := validRun()
	run.Review = &Review{Decision: ReviewApproved, ReviewedBy: "operator", ReviewedAt: time.Now()}
	if got := DisplayStatus(run); got != "Approved" {
		t.Errorf("done+review = %q, want Approved", got)
	}
	// The raw backend status is never rewritten by the derivation.
	if run.Status != AnalysisDone {
		t.Errorf("status mutated to %q", run.Status)
	}

	run.Review = nil
	if got := DisplayStatus(run); got != "Completed" {
		t.Errorf("done without review = %q, want Completed", got)
	}

	run.Review = &Review{Decision: ReviewRejected, ReviewedBy: "operator", ReviewedAt: time.Now()}
	if got := DisplayStatus(run); got != "Rejected" {
		t.Errorf("done+rejected review = %q, want Rejected", got)
	}

	for status, want := range map[AnalysisStatus]string{
		AnalysisQueued:     "Queued",
		AnalysisProcessing: "Processing",
		AnalysisError:      "Error",
	} {
		r := validRun()
		r.Status = status
		if got := DisplayStatus(r); got != want {
			t.Errorf("DisplayStatus(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestEnumDriftRejected(t *testing.T) {
	run := validRun()
	run.Status = "archived" // not yet in the closed set
	err := run.Validate()
	if err == nil {
		t.Fatal("unrecognized analysis status accepted")
	}
	// Never coerced into a known value.
	if run.Status != "archived" {
		t.Errorf("status silently rewritten to %q", run.Status)
	}
}

func TestReviewValidate(t *testing.T) {
	r := Review{Decision: "maybe", ReviewedBy: ""}
	if err := r.Validate(); err == nil {
		t.Fatal("invalid review accepted")
	}
	ok := Review{Decision: ReviewApproved, ReviewedBy: "operator", ReviewedAt: time.Now()}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid review rejected: %v", err)
	}
}
