// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package ledger records one entry per pipeline stage invocation so operators
// can see which runs happened, how they ended and which artifacts they wrote.
//
// Two stores are provided:
//   - MemoryStore: bounded, process-local, used by default and in tests
//   - DuckDBStore: persistent "runs" table in a DuckDB database file
//
// The ledger is observational. A failed write never changes a stage result.
package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("ledger: run not found")

// Run is the record of one stage invocation.
type Run struct {
	ID            string        `json:"id"`
	Stage         string        `json:"stage"`
	Trigger       string        `json:"trigger"` // "cli", "http", "schedule"
	Status        string        `json:"status"`
	StatusCode    int           `json:"status_code"`
	Message       string        `json:"message"`
	Locations     []string      `json:"locations,omitempty"`
	RowsRead      int           `json:"rows_read"`
	RowsWritten   int           `json:"rows_written"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration_ns"`
	CorrelationID string        `json:"correlation_id,omitempty"`
}

// Filter selects runs. Zero fields match everything; results are most recent first.
type Filter struct {
	Stage  string
	Status string
	Limit  int
}

// Store persists run records.
type Store interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	Query(ctx context.Context, filter Filter) ([]Run, error)
}
