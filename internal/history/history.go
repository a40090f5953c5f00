// Package history records parity runs in a local SQLite database so results can
// be tracked across repeated runs against the same reference.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	suite         TEXT NOT NULL,
	reference_url TEXT NOT NULL,
	candidate_url TEXT NOT NULL,
	engine        TEXT NOT NULL,
	compared      INTEGER NOT NULL,
	mismatches    INTEGER NOT NULL,
	passed        INTEGER NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultListLimit is the number of runs returned when no limit is given.
const DefaultListLimit = 20

// Run is one recorded parity run.
type Run struct {
	ID           uuid.UUID
	Suite        string
	ReferenceURL string
	CandidateURL string
	Engine       string
	Compared     int
	Mismatches   int
	Passed       bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == uuid.Nil {
		return fmt.Errorf("run id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, suite, reference_url, candidate_url, engine, compared, mismatches, passed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Suite, run.ReferenceURL, run.CandidateURL, run.Engine,
		run.Compared, run.Mismatches, boolToInt(run.Passed),
		run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, reference_url, candidate_url, engine, compared, mismatches, passed, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run                 Run
			id                  string
			passed              int
			startedAt, finished string
		)
		if err := rows.Scan(&id, &run.Suite, &run.ReferenceURL, &run.CandidateURL, &run.Engine,
			&run.Compared, &run.Mismatches, &passed, &startedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
		}
		if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("invalid finished_at %q: %w", finished, err)
		}
		run.Passed = passed != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
