// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cinematch/internal/ledger"
	"github.com/tomtom215/cinematch/internal/metrics"
)

type stubStage struct {
	name string
	out  Output
	err  error
	fn   func()
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Execute(ctx context.Context, trigger Trigger) (Output, error) {
	if s.fn != nil {
		s.fn()
	}
	return s.out, s.err
}

type failingLedger struct{}

func (failingLedger) Save(context.Context, *ledger.Run) error { return errors.New("disk full") }

func (failingLedger) Get(context.Context, string) (*ledger.Run, error) { return nil, ledger.ErrNotFound }

func (failingLedger) Query(context.Context, ledger.Filter) ([]ledger.Run, error) { return nil, nil }

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		stage       *stubStage
		wantStatus  string
		wantCode    int
		wantMessage string
	}{
		{
			name:        "success",
			stage:       &stubStage{name: "test", out: Output{Message: "done", Locations: []string{"s3://b/k"}}},
			wantStatus:  StatusSuccess,
			wantCode:    http.StatusOK,
			wantMessage: "done",
		},
		{
			name:        "input not found",
			stage:       &stubStage{name: "test", err: Fail(ErrInputNotFound, "Missing required files", nil)},
			wantStatus:  StatusError,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Missing required files",
		},
		{
			name:        "read failed",
			stage:       &stubStage{name: "test", err: Fail(ErrReadFailed, "Failed to read files", errors.New("bad csv"))},
			wantStatus:  StatusError,
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Failed to read files",
		},
		{
			name:        "config error",
			stage:       &stubStage{name: "test", err: Fail(ErrConfig, "MODEL_BUCKET_NAME: is required", nil)},
			wantStatus:  StatusError,
			wantCode:    http.StatusInternalServerError,
			wantMessage: "MODEL_BUCKET_NAME: is required",
		},
		{
			name:        "output conflict",
			stage:       &stubStage{name: "test", err: Fail(ErrConflict, "Output file already exists.", nil)},
			wantStatus:  StatusError,
			wantCode:    http.StatusConflict,
			wantMessage: "Output file already exists.",
		},
		{
			name:        "unexpected error",
			stage:       &stubStage{name: "test", err: errors.New("boom")},
			wantStatus:  StatusError,
			wantCode:    http.StatusInternalServerError,
			wantMessage: GenericErrorMessage,
		},
		{
			name:        "panic",
			stage:       &stubStage{name: "test", fn: func() { panic("nil map") }},
			wantStatus:  StatusError,
			wantCode:    http.StatusInternalServerError,
			wantMessage: GenericErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := ledger.NewMemoryStore(10)
			result := NewRunner(store).Run(context.Background(), tt.stage, Trigger{Source: TriggerHTTP})

			if result.Status != tt.wantStatus || result.StatusCode != tt.wantCode || result.Message != tt.wantMessage {
				t.Errorf("Run() = %+v", result)
			}
			if result.RunID == "" {
				t.Error("Run() returned empty run ID")
			}
			if result.OK() != (tt.wantStatus == StatusSuccess) {
				t.Errorf("OK() = %v", result.OK())
			}

			run, err := store.Get(context.Background(), result.RunID)
			if err != nil {
				t.Fatalf("run not recorded: %v", err)
			}
			if run.Status != tt.wantStatus || run.Trigger != TriggerHTTP || run.CorrelationID == "" {
				t.Errorf("ledger run = %+v", run)
			}
		})
	}
}

func TestRunner_LedgerFailureDoesNotChangeResult(t *testing.T) {
	before := testutil.ToFloat64(metrics.LedgerWriteErrors)

	stage := &stubStage{name: "test", out: Output{Message: "ok"}}
	result := NewRunner(failingLedger{}).Run(context.Background(), stage, Trigger{})

	if !result.OK() {
		t.Errorf("Run() = %+v, want success", result)
	}
	if got := testutil.ToFloat64(metrics.LedgerWriteErrors) - before; got != 1 {
		t.Errorf("ledger write errors increased by %v, want 1", got)
	}
}

func TestRunner_NilLedger(t *testing.T) {
	result := NewRunner(nil).Run(context.Background(), &stubStage{name: "test"}, Trigger{})
	if !result.OK() {
		t.Errorf("Run() = %+v", result)
	}
}

func TestRunner_RejectsOverlappingRunOfSameStage(t *testing.T) {
	runner := NewRunner(ledger.NewMemoryStore(10))
	entered := make(chan struct{})
	unblock := make(chan struct{})
	slow := &stubStage{name: "test", out: Output{Message: "ok"}, fn: func() {
		close(entered)
		<-unblock
	}}

	first := make(chan Result, 1)
	go func() { first <- runner.Run(context.Background(), slow, Trigger{}) }()
	<-entered

	second := runner.Run(context.Background(), &stubStage{name: "test"}, Trigger{})
	if second.StatusCode != http.StatusConflict || second.Message != MessageStageBusy {
		t.Errorf("overlapping Run() = %+v, want 409", second)
	}

	other := runner.Run(context.Background(), &stubStage{name: "other"}, Trigger{})
	if !other.OK() {
		t.Errorf("Run() of a different stage = %+v, want success", other)
	}

	close(unblock)
	if res := <-first; !res.OK() {
		t.Errorf("first Run() = %+v", res)
	}

	again := runner.Run(context.Background(), &stubStage{name: "test"}, Trigger{})
	if !again.OK() {
		t.Errorf("Run() after release = %+v, want success", again)
	}
}

func TestStageError(t *testing.T) {
	cause := errors.New("timeout")
	err := Fail(ErrReadFailed, "Failed to read files", cause)

	if !errors.Is(err, ErrReadFailed) || !errors.Is(err, cause) {
		t.Error("StageError should unwrap to kind and cause")
	}
	if errors.Is(err, ErrConfig) {
		t.Error("StageError should not match other kinds")
	}
	if got := err.Error(); got != "input read failed: Failed to read files: timeout" {
		t.Errorf("Error() = %q", got)
	}
}
