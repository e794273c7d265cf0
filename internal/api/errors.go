// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

// Error codes used in models.APIError.
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeStageFailed = "STAGE_FAILED"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeLedger      = "LEDGER_ERROR"
	ErrCodeRateLimit   = "RATE_LIMIT_EXCEEDED"
	ErrCodeBadRequest  = "BAD_REQUEST"
)
