// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package pipeline runs stages and converts their outcome into a Result.
//
// A Stage does the work and returns an Output or a classified error. The
// Runner owns everything around it: run IDs, panic recovery, status codes,
// logging, metrics and the run ledger. Nothing panics out of Runner.Run.
package pipeline

import (
	"context"
	"encoding/json"
	"time"
)

// Stage names.
const (
	StagePreprocess = "preprocess"
	StageModel      = "model"
)

// Result statuses.
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Trigger sources.
const (
	TriggerCLI      = "cli"
	TriggerHTTP     = "http"
	TriggerSchedule = "schedule"
)

// Trigger describes what started a run. Payload is opaque and never
// interpreted by the stages.
type Trigger struct {
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Output is what a successful stage reports.
type Output struct {
	Message     string
	Locations   []string
	RowsRead    int
	RowsDropped int
	RowsWritten int
}

// Stage is one unit of pipeline work.
type Stage interface {
	Name() string
	Execute(ctx context.Context, trigger Trigger) (Output, error)
}

// Result is the outcome of a run as reported to callers.
type Result struct {
	RunID      string        `json:"run_id"`
	Stage      string        `json:"stage"`
	Status     string        `json:"status"`
	StatusCode int           `json:"status_code"`
	Message    string        `json:"message"`
	Locations  []string      `json:"locations,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
