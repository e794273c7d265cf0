// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/ledger"
	"github.com/tomtom215/cinematch/internal/pipeline"
)

type stubStage struct {
	name    string
	out     pipeline.Output
	err     error
	payload []byte
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Execute(_ context.Context, trigger pipeline.Trigger) (pipeline.Output, error) {
	s.payload = trigger.Payload
	return s.out, s.err
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

type testServer struct {
	handler    http.Handler
	store      *ledger.MemoryStore
	preprocess *stubStage
	model      *stubStage
}

func newTestServer(mw *ChiMiddlewareConfig) *testServer {
	store := ledger.NewMemoryStore(100)
	preprocess := &stubStage{
		name: pipeline.StagePreprocess,
		out:  pipeline.Output{Message: "done", Locations: []string{"s3://p/Preprocessed/x.csv"}},
	}
	model := &stubStage{
		name: pipeline.StageModel,
		err:  pipeline.Fail(pipeline.ErrInputNotFound, "No file found in source bucket.", nil),
	}
	h := NewHandler(pipeline.NewRunner(store), store, preprocess, model)
	if mw == nil {
		mw = &ChiMiddlewareConfig{RateLimitDisabled: true}
	}
	return &testServer{
		handler:    NewRouter(h, NewChiMiddleware(mw)).SetupChi(),
		store:      store,
		preprocess: preprocess,
		model:      model,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestTriggerStage(t *testing.T) {
	srv := newTestServer(nil)

	t.Run("success", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/api/v1/stages/preprocess/runs", `{"source":"s3-event"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		if env.Status != "success" || env.Metadata.RequestID == "" {
			t.Errorf("envelope = %+v", env)
		}
		var result pipeline.Result
		if err := json.Unmarshal(env.Data, &result); err != nil {
			t.Fatal(err)
		}
		if result.Status != pipeline.StatusSuccess || len(result.Locations) != 1 {
			t.Errorf("result = %+v", result)
		}
		if string(srv.preprocess.payload) != `{"source":"s3-event"}` {
			t.Errorf("payload = %s", srv.preprocess.payload)
		}
	})

	t.Run("stage failure uses result status code", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/api/v1/stages/model/runs", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Status != "error" || env.Error == nil || env.Error.Code != ErrCodeStageFailed {
			t.Fatalf("envelope = %+v", env)
		}
		if env.Error.Message != "No file found in source bucket." {
			t.Errorf("message = %q", env.Error.Message)
		}
	})

	t.Run("conflicting run maps to 409", func(t *testing.T) {
		prev := srv.model.err
		srv.model.err = pipeline.Fail(pipeline.ErrConflict, "Output files already exist.", nil)
		defer func() { srv.model.err = prev }()

		rec := srv.do(http.MethodPost, "/api/v1/stages/model/runs", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Error == nil || env.Error.Code != ErrCodeConflict || env.Error.Message != "Output files already exist." {
			t.Errorf("envelope = %+v", env)
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/api/v1/stages/train/runs", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid json body", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/api/v1/stages/preprocess/runs", "{not json")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeBadRequest {
			t.Errorf("envelope = %+v", env)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/api/v1/stages/preprocess/runs", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestListRuns(t *testing.T) {
	srv := newTestServer(nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, stage := range []string{"preprocess", "model", "model"} {
		status := pipeline.StatusSuccess
		if i == 2 {
			status = pipeline.StatusError
		}
		_ = srv.store.Save(context.Background(), &ledger.Run{
			ID:        stage + string(rune('a'+i)),
			Stage:     stage,
			Status:    status,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
	}{
		{"all", "", http.StatusOK, 3},
		{"by stage", "?stage=model", http.StatusOK, 2},
		{"by status", "?status=Error", http.StatusOK, 1},
		{"limit", "?limit=1", http.StatusOK, 1},
		{"invalid stage", "?stage=train", http.StatusBadRequest, 0},
		{"limit too large", "?limit=100000", http.StatusBadRequest, 0},
		{"non-numeric limit", "?limit=ten", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodGet, "/api/v1/runs"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if tt.wantCode != http.StatusOK {
				if env.Error == nil || env.Error.Code != ErrCodeValidation {
					t.Errorf("envelope = %+v", env)
				}
				return
			}
			var runs RunsResponse
			if err := json.Unmarshal(env.Data, &runs); err != nil {
				t.Fatal(err)
			}
			if runs.Count != tt.wantCount || len(runs.Runs) != tt.wantCount {
				t.Errorf("count = %d, runs = %d, want %d", runs.Count, len(runs.Runs), tt.wantCount)
			}
		})
	}
}

func TestTriggeredRunIsListed(t *testing.T) {
	srv := newTestServer(nil)
	srv.do(http.MethodPost, "/api/v1/stages/preprocess/runs", "")

	rec := srv.do(http.MethodGet, "/api/v1/runs?stage=preprocess", "")
	var runs RunsResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &runs); err != nil {
		t.Fatal(err)
	}
	if runs.Count != 1 || runs.Runs[0].Trigger != pipeline.TriggerHTTP {
		t.Errorf("runs = %+v", runs)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(nil)

	rec := srv.do(http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var live LivenessStatus
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &live); err != nil {
		t.Fatal(err)
	}
	if !live.Alive {
		t.Error("Alive = false")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}

	rec = srv.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pipeline_") {
		t.Errorf("metrics status = %d", rec.Code)
	}

	rec = srv.do(http.MethodGet, "/nowhere", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(&ChiMiddlewareConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, srv.do(http.MethodPost, "/api/v1/stages/preprocess/runs", "").Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}
