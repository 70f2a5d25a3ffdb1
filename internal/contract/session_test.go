package contract

import (
	"testing"
	"time"
)

func TestSessionStale(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	fresh := Session{Status: SessionActive, UpdatedAt: now.Add(-time.Minute)}
	if fresh.Stale(now) {
		t.Error("session updated a minute ago flagged stale")
	}

	quiet := Session{Status: SessionActive, UpdatedAt: now.Add(-StaleAfter - time.Second)}
	if !quiet.Stale(now) {
		t.Error("session quiet past the threshold not flagged stale")
	}

	// Terminal sessions are never stale, however old.
	done := Session{Status: SessionCompleted, UpdatedAt: now.Add(-24 * time.Hour)}
	if done.Stale(now) {
		t.Error("terminal session flagged stale")
	}
}

func TestSessionStatusClosedSet(t *testing.T) {
	for _, s := range []SessionStatus{SessionPending, SessionActive, SessionCompleted, SessionFailed} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []SessionStatus{"", "running", "COMPLETED", "done"} {
		if s.Valid() {
			t.Errorf("%q should be rejected", s)
		}
	}
	if SessionActive.Terminal() || SessionPending.Terminal() {
		t.Error("non-terminal status reported terminal")
	}
	if !SessionCompleted.Terminal() || !SessionFailed.Terminal() {
		t.Error("terminal status not reported terminal")
	}
}

func TestSessionValidate(t *testing.T) {
	ok := Session{
		ID: "sess-1", Kind: KindInventory, Status: SessionActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	bad := Session{Kind: "cleanup", Status: "paused", CaptureCount: -1}
	err := bad.Validate()
	if err == nil {
		t.Fatal("invalid session accepted")
	}
	ve := err.(*ValidationError)
	if len(ve.Fields) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(ve.Fields), err)
	}
}

func TestCategoryForSection(t *testing.T) {
	tests := []struct {
		section string
		want    ConfigCategory
	}{
		{"wifi", CategoryNetwork},
		{"WiFi", CategoryNetwork},
		{"  ethernet ", CategoryNetwork},
		{"camera", CategoryCamera},
		{"imaging", CategoryCamera},
		{"s3", CategoryStorage},
		{"docker", CategoryOrchestration},
		{"scheduler", CategoryOrchestration},
		{"power", CategorySystem},
		{"brand-new-section", CategoryGeneral},
		{"", CategoryGeneral},
	}
	for _, tt := range tests {
		if got := CategoryForSection(tt.section); got != tt.want {
			t.Errorf("CategoryForSection(%q) = %q, want %q", tt.section, got, tt.want)
		}
	}
}

func TestConfigEntryValidate(t *testing.T) {
	ok := ConfigEntry{Key: "camera.exposure", Value: "auto", ValueType: "string", Section: "imaging", Editable: true}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}
	if ok.Category() != CategoryCamera {
		t.Errorf("Category() = %q, want camera", ok.Category())
	}

	bad := ConfigEntry{ValueType: "blob"}
	if err := bad.Validate(); err == nil {
		t.Fatal("entry without key and with unknown type accepted")
	}
}
