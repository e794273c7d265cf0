// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"time"

	"github.com/tomtom215/cinematch/internal/ledger"
	"github.com/tomtom215/cinematch/internal/pipeline"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_stages.go: stage triggers and run history
//   - handlers_health.go: liveness
type Handler struct {
	runner    *pipeline.Runner
	stages    map[string]pipeline.Stage
	ledger    ledger.Store
	startTime time.Time
}

// NewHandler creates a handler serving the given stages. Runs are read back
// from store.
func NewHandler(runner *pipeline.Runner, store ledger.Store, stages ...pipeline.Stage) *Handler {
	byName := make(map[string]pipeline.Stage, len(stages))
	for _, s := range stages {
		byName[s.Name()] = s
	}
	return &Handler{
		runner:    runner,
		stages:    byName,
		ledger:    store,
		startTime: time.Now(),
	}
}
