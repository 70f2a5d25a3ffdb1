package reach

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestSnapshotBeforeFirstProbe(t *testing.T) {
	p := NewProbe("127.0.0.1", time.Minute, time.Second, zaptest.NewLogger(t))
	if _, ok := p.Snapshot(); ok {
		t.Error("snapshot reported ready before any probe ran")
	}
}

func TestRecordTracksTransitions(t *testing.T) {
	p := NewProbe("127.0.0.1", time.Minute, time.Second, zaptest.NewLogger(t))
	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	p.record(Snapshot{Reachable: true, CheckedAt: t0})
	snap, ok := p.Snapshot()
	if !ok || !snap.LastChange.Equal(t0) {
		t.Fatalf("first observation should set last_change: %+v", snap)
	}

	// Same state: last_change sticks.
	p.record(Snapshot{Reachable: true, CheckedAt: t0.Add(time.Minute)})
	snap, _ = p.Snapshot()
	if !snap.LastChange.Equal(t0) {
		t.Errorf("last_change moved without a transition: %v", snap.LastChange)
	}

	// Transition: last_change updates.
	p.record(Snapshot{Reachable: false, CheckedAt: t0.Add(2 * time.Minute)})
	snap, _ = p.Snapshot()
	if !snap.LastChange.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("transition did not update last_change: %v", snap.LastChange)
	}
}
