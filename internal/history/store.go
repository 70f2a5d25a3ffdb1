// Package history persists session snapshots and submitted reviews locally so
// the dashboard can show recent activity even while the orchestrator is
// unreachable.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/mod/semver"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/shelfsense/pidash/internal/contract"
)

// ErrNewerSchema is returned when the database was written by a newer pidash
// than the running binary.
var ErrNewerSchema = fmt.Errorf("history database was created by a newer version of pidash")

// Store is the SQLite-backed local history store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection; WAL keeps readers
	// concurrent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _schema_meta (
			id          INTEGER PRIMARY KEY CHECK (id = 1),
			app_version TEXT    NOT NULL,
			updated_at  TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_history (
			id             TEXT PRIMARY KEY,
			kind           TEXT NOT NULL,
			status         TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL,
			capture_count  INTEGER NOT NULL DEFAULT 0,
			analysis_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_history_updated
			ON session_history(updated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS review_history (
			run_id      TEXT PRIMARY KEY,
			session_id  TEXT NOT NULL,
			decision    TEXT NOT NULL,
			reviewed_by TEXT NOT NULL,
			notes       TEXT NOT NULL DEFAULT '',
			reviewed_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate history schema: %w", err)
		}
	}
	return nil
}

// CheckVersion refuses to open a database written by a newer binary. The
// special version "dev" always passes.
func (s *Store) CheckVersion(ctx context.Context, current string) error {
	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT app_version FROM _schema_meta WHERE id = 1",
	).Scan(&stored)

	now := time.Now().UTC().Format(time.RFC3339)
	if err == sql.ErrNoRows {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO _schema_meta (id, app_version, updated_at) VALUES (1, ?, ?)",
			current, now)
		return err
	}
	if err != nil {
		return fmt.Errorf("query schema version: %w", err)
	}

	if stored == "dev" || current == "dev" {
		_, err = s.db.ExecContext(ctx,
			"UPDATE _schema_meta SET app_version = ?, updated_at = ? WHERE id = 1", current, now)
		return err
	}

	if semver.Compare(normalizeVersion(current), normalizeVersion(stored)) < 0 {
		return fmt.Errorf("%w: database=%s, binary=%s", ErrNewerSchema, stored, current)
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE _schema_meta SET app_version = ?, updated_at = ? WHERE id = 1", current, now)
	return err
}

func normalizeVersion(v string) string {
	if v != "" && v[0] != 'v' {
		return "v" + v
	}
	return v
}

// RecordSession upserts the latest snapshot of a session.
func (s *Store) RecordSession(ctx context.Context, sess contract.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_history (id, kind, status, created_at, updated_at, capture_count, analysis_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			capture_count = excluded.capture_count,
			analysis_count = excluded.analysis_count`,
		sess.ID, string(sess.Kind), string(sess.Status),
		sess.CreatedAt.UTC().Format(time.RFC3339),
		sess.UpdatedAt.UTC().Format(time.RFC3339),
		sess.CaptureCount, sess.AnalysisCount,
	)
	if err != nil {
		return fmt.Errorf("record session %s: %w", sess.ID, err)
	}
	return nil
}

// RecentSessions returns the most recently updated session snapshots.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]contract.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, status, created_at, updated_at, capture_count, analysis_count
		FROM session_history ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	var sessions []contract.Session
	for rows.Next() {
		var (
			sess                 contract.Session
			kind, status         string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&sess.ID, &kind, &status, &createdAt, &updatedAt,
			&sess.CaptureCount, &sess.AnalysisCount); err != nil {
			return nil, fmt.Errorf("scan session history: %w", err)
		}
		sess.Kind = contract.SessionKind(kind)
		sess.Status = contract.SessionStatus(status)
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sess.CreatedAt = t
		}
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			sess.UpdatedAt = t
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// ReviewRecord is one persisted operator review.
type ReviewRecord struct {
	RunID      string                  `json:"run_id"`
	SessionID  string                  `json:"session_id"`
	Decision   contract.ReviewDecision `json:"decision"`
	ReviewedBy string                  `json:"reviewed_by"`
	Notes      string                  `json:"notes,omitempty"`
	ReviewedAt time.Time               `json:"reviewed_at"`
}

// RecordReview upserts a submitted review.
func (s *Store) RecordReview(ctx context.Context, runID, sessionID string, review contract.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_history (run_id, session_id, decision, reviewed_by, notes, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			decision = excluded.decision,
			reviewed_by = excluded.reviewed_by,
			notes = excluded.notes,
			reviewed_at = excluded.reviewed_at`,
		runID, sessionID, string(review.Decision), review.ReviewedBy, review.Notes,
		review.ReviewedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record review %s: %w", runID, err)
	}
	return nil
}

// RecentReviews returns the most recent persisted reviews.
func (s *Store) RecentReviews(ctx context.Context, limit int) ([]ReviewRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, session_id, decision, reviewed_by, notes, reviewed_at
		FROM review_history ORDER BY reviewed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query review history: %w", err)
	}
	defer rows.Close()

	var records []ReviewRecord
	for rows.Next() {
		var (
			rec                    ReviewRecord
			decision, reviewedAt string
		)
		if err := rows.Scan(&rec.RunID, &rec.SessionID, &decision, &rec.ReviewedBy, &rec.Notes, &reviewedAt); err != nil {
			return nil, fmt.Errorf("scan review history: %w", err)
		}
		rec.Decision = contract.ReviewDecision(decision)
		if t, err := time.Parse(time.RFC3339, reviewedAt); err == nil {
			rec.ReviewedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
