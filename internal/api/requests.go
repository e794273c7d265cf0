// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// Default and maximum page sizes for GET /api/v1/runs.
const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

// maxTriggerBody bounds the trigger payload.
const maxTriggerBody = 1 << 20

// ListRunsRequest represents the validated query parameters for GET /api/v1/runs.
type ListRunsRequest struct {
	Stage  string `validate:"omitempty,oneof=preprocess model"`
	Status string `validate:"omitempty,oneof=Success Error"`
	Limit  int    `validate:"min=1,max=500"`
}

// parseListRunsRequest reads the query string. A non-numeric limit is
// reported as a validation failure rather than silently defaulted.
func parseListRunsRequest(r *http.Request) ListRunsRequest {
	q := r.URL.Query()
	req := ListRunsRequest{
		Stage:  q.Get("stage"),
		Status: q.Get("status"),
		Limit:  defaultRunsLimit,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		req.Limit = n
	}
	return req
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
