// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/ledger"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// MessageStageBusy is reported when a run is rejected because the same stage
// is already running.
const MessageStageBusy = "Stage run already in progress."

// Runner executes stages and records each run. At most one run per stage
// name executes at a time; overlapping runs fail with ErrConflict.
type Runner struct {
	ledger ledger.Store
	now    func() time.Time

	mu      sync.Mutex
	running map[string]bool
}

// NewRunner creates a runner that records runs in store. A nil store
// disables recording.
func NewRunner(store ledger.Store) *Runner {
	return &Runner{ledger: store, now: time.Now, running: make(map[string]bool)}
}

// Run executes stage once and returns its Result. Failures, including
// panics, are converted into an error Result.
func (r *Runner) Run(ctx context.Context, stage Stage, trigger Trigger) Result {
	runID := uuid.New().String()
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	ctx = logging.ContextWithRunID(ctx, runID)
	if trigger.Source == "" {
		trigger.Source = TriggerCLI
	}

	logger := logging.Ctx(ctx).With().Str("stage", stage.Name()).Str("trigger", trigger.Source).Logger()
	logger.Info().Msg("Stage run started")

	started := r.now()
	var out Output
	var err error
	if r.acquire(stage.Name()) {
		out, err = r.execute(ctx, stage, trigger)
		r.release(stage.Name())
	} else {
		err = Fail(ErrConflict, MessageStageBusy, nil)
	}
	duration := r.now().Sub(started)

	result := Result{
		RunID:    runID,
		Stage:    stage.Name(),
		Duration: duration,
	}
	if err != nil {
		result.Status = StatusError
		result.StatusCode, result.Message = classify(err)
		logger.Error().Err(err).Int("status_code", result.StatusCode).Dur("duration", duration).Msg("Stage run failed")
	} else {
		result.Status = StatusSuccess
		result.StatusCode = http.StatusOK
		result.Message = out.Message
		result.Locations = out.Locations
		logger.Info().
			Strs("locations", out.Locations).
			Int("rows_read", out.RowsRead).
			Int("rows_dropped", out.RowsDropped).
			Int("rows_written", out.RowsWritten).
			Dur("duration", duration).
			Msg("Stage run completed")

		metrics.RecordRows(stage.Name(), "read", out.RowsRead)
		metrics.RecordRows(stage.Name(), "dropped", out.RowsDropped)
		metrics.RecordRows(stage.Name(), "written", out.RowsWritten)
	}
	metrics.RecordStageRun(stage.Name(), err == nil, duration)

	r.record(ctx, &ledger.Run{
		ID:            runID,
		Stage:         result.Stage,
		Trigger:       trigger.Source,
		Status:        result.Status,
		StatusCode:    result.StatusCode,
		Message:       result.Message,
		Locations:     result.Locations,
		RowsRead:      out.RowsRead,
		RowsWritten:   out.RowsWritten,
		StartedAt:     started.UTC(),
		Duration:      duration,
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	})
	return result
}

func (r *Runner) acquire(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[name] {
		return false
	}
	r.running[name] = true
	return true
}

func (r *Runner) release(name string) {
	r.mu.Lock()
	delete(r.running, name)
	r.mu.Unlock()
}

func (r *Runner) execute(ctx context.Context, stage Stage, trigger Trigger) (out Output, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Error().
				Str("stage", stage.Name()).
				Str("stack", string(debug.Stack())).
				Msgf("Stage panicked: %v", rec)
			out = Output{}
			err = fmt.Errorf("stage %s panicked: %v", stage.Name(), rec)
		}
	}()
	return stage.Execute(ctx, trigger)
}

// record writes the run to the ledger. Failures are logged only.
func (r *Runner) record(ctx context.Context, run *ledger.Run) {
	if r.ledger == nil {
		return
	}
	// The run is recorded even when the caller's context was cancelled.
	if err := r.ledger.Save(context.WithoutCancel(ctx), run); err != nil {
		metrics.LedgerWriteErrors.Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("stage", run.Stage).Msg("Failed to record run in ledger")
	}
}
