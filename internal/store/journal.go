// Package store keeps the attempt journal: every solve-loop transition of
// every run, in SQLite, for later inspection.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bytsbot/internal/judge"
	"bytsbot/internal/logging"
	"bytsbot/internal/solver"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Attempt is one journaled transition.
type Attempt struct {
	ID        int64
	RunID     string
	Slug      string
	Cycle     int
	State     solver.State
	ErrorKind judge.ErrorKind
	Message   string
	Detail    string
	At        time.Time
}

// Journal records solve-loop transitions. It implements solver.Observer
// and is safe for concurrent use.
type Journal struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	runID  string
}

var _ solver.Observer = (*Journal)(nil)

// OpenJournal opens (creating if needed) the journal at path. Each Journal
// value gets a fresh run id.
func OpenJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	j := &Journal{db: db, dbPath: path, runID: uuid.NewString()}
	if err := j.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("journal opened at %s (run %s)", path, j.runID)
	return j, nil
}

func (j *Journal) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		slug TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		state TEXT NOT NULL,
		error_kind TEXT,
		message TEXT,
		detail TEXT,
		at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_slug ON attempts(slug, id);
	CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create attempts table: %w", err)
	}
	return nil
}

// RunID identifies this process's rows.
func (j *Journal) RunID() string { return j.runID }

// Transition implements solver.Observer. Write failures are logged, never
// surfaced to the loop.
func (j *Journal) Transition(ev solver.Event) {
	if err := j.Record(ev); err != nil {
		logging.StoreWarn("journal write failed for %s: %v", ev.Slug, err)
	}
}

// Record inserts one transition.
func (j *Journal) Record(ev solver.Event) error {
	var kind, msg string
	if ev.Outcome != nil {
		kind, msg = string(ev.Outcome.ErrorKind), ev.Outcome.ErrorMessage
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.Exec(
		`INSERT INTO attempts (run_id, slug, cycle, state, error_kind, message, detail, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, ev.Slug, ev.Cycle, string(ev.State), kind, msg, ev.Detail, at.UnixMilli(),
	)
	return err
}

// Recent returns up to limit transitions for slug, newest first. An empty
// slug spans all problems.
func (j *Journal) Recent(slug string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, run_id, slug, cycle, state, COALESCE(error_kind, ''), COALESCE(message, ''), COALESCE(detail, ''), at
		FROM attempts`
	args := []any{}
	if slug != "" {
		query += ` WHERE slug = ?`
		args = append(args, slug)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	j.mu.Lock()
	defer j.mu.Unlock()
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var state, kind string
		var at int64
		if err := rows.Scan(&a.ID, &a.RunID, &a.Slug, &a.Cycle, &state, &kind, &a.Message, &a.Detail, &at); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.State, a.ErrorKind, a.At = solver.State(state), judge.ErrorKind(kind), time.UnixMilli(at)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
