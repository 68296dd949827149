// Package store records conformance runs in SQLite so suppression lists
// can be pruned against real history instead of a single run's output.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for run history.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the runs and results tables. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY,
  started_at      TIMESTAMP NOT NULL,
  engine          TEXT NOT NULL,
  ruby_version    TEXT NOT NULL,
  ranges          BOOLEAN NOT NULL,
  corpus          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id),
  label           TEXT NOT NULL,
  outcome         TEXT NOT NULL,
  rule            TEXT,
  stale           BOOLEAN NOT NULL DEFAULT FALSE,
  detail          TEXT
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_outcome ON results(run_id, outcome);
`

// Run is one recorded harness invocation.
type Run struct {
	ID        int64
	StartedAt time.Time
	Engine    string
	Version   string
	Ranges    bool
	Corpus    string
}

// Result is one recorded case judgment.
type Result struct {
	RunID   int64
	Label   string
	Outcome string
	Rule    string
	Stale   bool
	Detail  string
}

// BeginRun inserts a run record and returns its ID.
func (s *Store) BeginRun(r *Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (started_at, engine, ruby_version, ranges, corpus) VALUES (?, ?, ?, ?, ?)`,
		r.StartedAt, r.Engine, r.Version, r.Ranges, r.Corpus,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	r.ID = id
	return id, nil
}

// RecordResults inserts all results of a run in one transaction.
func (s *Store) RecordResults(runID int64, results []Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO results (run_id, label, outcome, rule, stale, detail) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(runID, r.Label, r.Outcome, r.Rule, r.Stale, r.Detail); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert result %s: %w", r.Label, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run, or nil when none is recorded.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, engine, ruby_version, ranges, corpus FROM runs ORDER BY id DESC LIMIT 1`)
	var r Run
	err := row.Scan(&r.ID, &r.StartedAt, &r.Engine, &r.Version, &r.Ranges, &r.Corpus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &r, nil
}

// Summary tallies a run's results per outcome.
func (s *Store) Summary(runID int64) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT outcome, COUNT(*) FROM results WHERE run_id = ? GROUP BY outcome`, runID)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("summary scan: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

// StaleResults returns a run's passing cases whose labels still matched a
// suppression rule, ordered by label.
func (s *Store) StaleResults(runID int64) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT run_id, label, outcome, rule, stale, detail FROM results
		 WHERE run_id = ? AND stale ORDER BY label`, runID)
	if err != nil {
		return nil, fmt.Errorf("stale results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.RunID, &r.Label, &r.Outcome, &r.Rule, &r.Stale, &r.Detail); err != nil {
			return nil, fmt.Errorf("stale scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
