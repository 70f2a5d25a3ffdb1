package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/pidash/internal/contract"
	"github.com/shelfsense/pidash/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err, "open history store")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := testutil.NewSession(
		testutil.WithID("sess-1"),
		testutil.WithCreatedAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)),
		testutil.WithUpdatedAt(time.Date(2026, 8, 30, 10, 5, 0, 0, time.UTC)),
	)
	require.NoError(t, s.RecordSession(ctx, sess))

	// Re-record with a newer status: upsert, not duplicate.
	sess.Status = contract.SessionCompleted
	sess.UpdatedAt = sess.UpdatedAt.Add(time.Minute)
	sess.AnalysisCount = 1
	require.NoError(t, s.RecordSession(ctx, sess))

	got, err := s.RecentSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, contract.SessionCompleted, got[0].Status)
	assert.Equal(t, 1, got[0].AnalysisCount)
	assert.True(t, got[0].CreatedAt.Equal(sess.CreatedAt), "created_at lost precision: %v", got[0].CreatedAt)
}

func TestRecentSessionsOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordSession(ctx, testutil.NewSession(
			testutil.WithID(id),
			testutil.WithKind(contract.KindDiagnostic),
			testutil.WithStatus(contract.SessionCompleted),
			testutil.WithCreatedAt(base),
			testutil.WithUpdatedAt(base.Add(time.Duration(i)*time.Hour)),
		)))
	}

	got, err := s.RecentSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestReviewRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	review := contract.Review{
		Decision: contract.ReviewApproved, ReviewedBy: "operator",
		Notes: "counts verified", ReviewedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.RecordReview(ctx, "run-1", "sess-1", review))

	got, err := s.RecentReviews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, contract.ReviewApproved, got[0].Decision)
	assert.Equal(t, "counts verified", got[0].Notes)
}

func TestCheckVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CheckVersion(ctx, "0.2.0"))
	// Same or newer binary is fine.
	require.NoError(t, s.CheckVersion(ctx, "0.3.0"))
	// Older binary must refuse.
	assert.Error(t, s.CheckVersion(ctx, "0.1.0"), "older binary accepted a newer database")
	// "dev" always passes.
	assert.NoError(t, s.CheckVersion(ctx, "dev"))
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
