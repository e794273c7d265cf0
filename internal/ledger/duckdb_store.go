// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
)

// DuckDBStore implements Store using DuckDB for persistent storage.
type DuckDBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenDuckDBStore opens the database file at path (":memory:" for a
// throwaway database) and ensures the runs table exists.
func OpenDuckDBStore(ctx context.Context, path string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", path, err)
	}
	store := &DuckDBStore{db: db}
	if err := store.CreateTable(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

// CreateTable creates the runs table if it doesn't exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stage TEXT NOT NULL,
			trigger_source TEXT NOT NULL,
			status TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			message TEXT NOT NULL,
			locations JSON,
			rows_read INTEGER NOT NULL,
			rows_written INTEGER NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			duration_ns BIGINT NOT NULL,
			correlation_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_stage ON runs(stage);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	for _, stmt := range strings.Split(query, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	logging.Debug().Msg("Run ledger table created/verified")
	return nil
}

// Save persists a run record to DuckDB.
func (s *DuckDBStore) Save(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	locations := "[]"
	if len(run.Locations) > 0 {
		data, err := json.Marshal(run.Locations)
		if err != nil {
			return fmt.Errorf("marshal locations: %w", err)
		}
		locations = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, stage, trigger_source, status, status_code, message, locations,
			rows_read, rows_written, started_at, duration_ns, correlation_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Stage, run.Trigger, run.Status, run.StatusCode, run.Message, locations,
		run.RowsRead, run.RowsWritten, run.StartedAt.UTC(), int64(run.Duration), run.CorrelationID,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, stage, trigger_source, status, status_code, message,
		CAST(locations AS VARCHAR) AS locations,
		rows_read, rows_written, started_at, duration_ns, correlation_id
	FROM runs`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run           Run
		locations     sql.NullString
		durationNS    int64
		correlationID sql.NullString
	)
	if err := row.Scan(
		&run.ID, &run.Stage, &run.Trigger, &run.Status, &run.StatusCode, &run.Message,
		&locations, &run.RowsRead, &run.RowsWritten, &run.StartedAt, &durationNS, &correlationID,
	); err != nil {
		return nil, err
	}
	if locations.Valid && locations.String != "" {
		if err := json.Unmarshal([]byte(locations.String), &run.Locations); err != nil {
			return nil, fmt.Errorf("decode locations: %w", err)
		}
	}
	if len(run.Locations) == 0 {
		run.Locations = nil
	}
	run.Duration = time.Duration(durationNS)
	run.CorrelationID = correlationID.String
	return &run, nil
}

// Get retrieves a run by ID.
func (s *DuckDBStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// Query retrieves runs matching the filter, most recent first.
func (s *DuckDBStore) Query(ctx context.Context, filter Filter) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		conditions []string
		args       []interface{}
	)
	if filter.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, filter.Stage)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	query := selectColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to scan run row")
			continue
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}
