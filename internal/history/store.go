// Package history records the outcome of each scheduled worker run in a
// local SQLite table, an ops-diagnostics supplement to the in-memory
// snapshots (spec §C.3) so a "status" command can show recent run health
// without re-deriving it from logs.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/logger"
)

const (
	journalMode    = "WAL"
	busyTimeoutMS  = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS worker_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	worker      TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	summary     TEXT,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_worker_runs_worker_started
	ON worker_runs(worker, started_at DESC);
`

// Store is the execution-history table, one row per worker run.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path with WAL mode
// and a busy timeout, and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create history directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open history database at %s", path)
	}

	if _, err := db.Exec("PRAGMA journal_mode = " + journalMode); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to enable %s journal mode", journalMode)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create history schema")
	}

	logger.With(logger.SymHistory).Debugw("history database opened", "path", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one recorded worker execution.
type Run struct {
	ID         int64
	Worker     string
	StartedAt  time.Time
	DurationMs int64
	Success    bool
	Summary    string
	Error      string
}

// Record inserts a completed run.
func (s *Store) Record(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO worker_runs (worker, started_at, duration_ms, success, summary, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Worker, r.StartedAt.UTC(), r.DurationMs, r.Success, r.Summary, r.Error,
	)
	if err != nil {
		return errors.Wrap(err, "failed to record worker run")
	}
	return nil
}

// Recent returns the most recent runs for a worker, newest first, capped at
// limit rows.
func (s *Store) Recent(worker string, limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, worker, started_at, duration_ms, success, summary, error
		 FROM worker_runs WHERE worker = ? ORDER BY started_at DESC LIMIT ?`,
		worker, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query worker runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var success int
		var summary, errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Worker, &r.StartedAt, &r.DurationMs, &success, &summary, &errMsg); err != nil {
			return nil, errors.Wrap(err, "failed to scan worker run")
		}
		r.Success = success != 0
		r.Summary = summary.String
		r.Error = errMsg.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate worker runs")
	}
	return out, nil
}

// LatestPerWorker returns the single most recent run for every distinct
// worker name seen, for a compact status summary.
func (s *Store) LatestPerWorker() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT w.id, w.worker, w.started_at, w.duration_ms, w.success, w.summary, w.error
		FROM worker_runs w
		INNER JOIN (
			SELECT worker, MAX(started_at) AS max_started
			FROM worker_runs GROUP BY worker
		) latest ON w.worker = latest.worker AND w.started_at = latest.max_started
		ORDER BY w.worker
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query latest worker runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var success int
		var summary, errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Worker, &r.StartedAt, &r.DurationMs, &success, &summary, &errMsg); err != nil {
			return nil, errors.Wrap(err, "failed to scan worker run")
		}
		r.Success = success != 0
		r.Summary = summary.String
		r.Error = errMsg.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate worker runs")
	}
	return out, nil
}
