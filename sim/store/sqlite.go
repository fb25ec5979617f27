package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/hank-transition/hank-transition/sim"
)

// SQLiteStore persists results in a single SQLite file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveResult(ctx context.Context, res *sim.Result) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := encodeResult(res)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO results (run_id, horizon, status, outer_iterations, inner_iterations, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			horizon = excluded.horizon,
			status = excluded.status,
			outer_iterations = excluded.outer_iterations,
			inner_iterations = excluded.inner_iterations,
			payload = excluded.payload
	`, res.RunID, res.Horizon, string(res.Status), res.OuterIterations, res.InnerIterations, payload)
	if err != nil {
		return fmt.Errorf("save result %s: %w", res.RunID, err)
	}
	return nil
}

func (s *SQLiteStore) GetResult(ctx context.Context, runID string) (*sim.Result, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM results WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	res, err := decodeResult(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode result %s: %w", runID, err)
	}
	return res, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, horizon, status, outer_iterations, inner_iterations
		FROM results ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var status string
		if err := rows.Scan(&r.RunID, &r.Horizon, &status, &r.OuterIterations, &r.InnerIterations); err != nil {
			return nil, err
		}
		r.Status = sim.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS results (
			run_id TEXT PRIMARY KEY,
			horizon INTEGER NOT NULL,
			status TEXT NOT NULL,
			outer_iterations INTEGER NOT NULL,
			inner_iterations INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
