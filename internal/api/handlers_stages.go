// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/ledger"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/pipeline"
)

// TriggerStage runs the stage named in the path and answers with its Result.
func (h *Handler) TriggerStage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "stage")

	stage, ok := h.stages[name]
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown stage: "+sanitizeLogValue(name), nil)
		return
	}

	payload, problem := readPayload(w, r)
	if problem != "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, problem, nil)
		return
	}

	result := h.runner.Run(r.Context(), stage, pipeline.Trigger{
		Source:  pipeline.TriggerHTTP,
		Payload: payload,
	})

	if result.OK() {
		respondSuccess(w, r, result.StatusCode, result, start)
		return
	}
	code := ErrCodeStageFailed
	if result.StatusCode == http.StatusConflict {
		code = ErrCodeConflict
	}
	respondJSON(w, result.StatusCode, &models.APIResponse{
		Status:   "error",
		Data:     result,
		Metadata: metadata(r, start),
		Error: &models.APIError{
			Code:    code,
			Message: result.Message,
		},
	})
}

// readPayload returns the request body as raw JSON, or nil when empty. A
// non-empty problem describes why the body was rejected.
func readPayload(w http.ResponseWriter, r *http.Request) (payload []byte, problem string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTriggerBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "Request body too large"
		}
		return nil, "Failed to read request body"
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ""
	}
	if !json.Valid(body) {
		return nil, "Request body must be valid JSON"
	}
	return body, ""
}

// RunsResponse is the data of GET /api/v1/runs.
type RunsResponse struct {
	Runs  []ledger.Run `json:"runs"`
	Count int          `json:"count"`
}

// ListRuns returns recent runs, most recent first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := parseListRunsRequest(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: metadata(r, start),
			Error:    apiErr,
		})
		return
	}

	runs, err := h.ledger.Query(r.Context(), ledger.Filter{
		Stage:  req.Stage,
		Status: req.Status,
		Limit:  req.Limit,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeLedger, "Failed to read run history", err)
		return
	}
	if runs == nil {
		runs = []ledger.Run{}
	}
	respondSuccess(w, r, http.StatusOK, RunsResponse{Runs: runs, Count: len(runs)}, start)
}
