// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package pipeline

import (
	"errors"
	"net/http"
)

// Failure classes. Stages wrap one of these so the runner can map the
// failure onto a status code.
var (
	// ErrConfig means required settings are missing or invalid.
	ErrConfig = errors.New("configuration error")

	// ErrInputNotFound means an input folder holds no usable object.
	ErrInputNotFound = errors.New("input not found")

	// ErrReadFailed means an input object could not be fetched or parsed.
	ErrReadFailed = errors.New("input read failed")

	// ErrConflict means the run would replace an existing output, or another
	// run of the same stage is in progress.
	ErrConflict = errors.New("conflict")
)

// StageError is a classified stage failure with the message reported to the
// caller. Err carries the underlying cause for logs.
type StageError struct {
	Kind    error
	Message string
	Err     error
}

// Fail builds a StageError.
func Fail(kind error, message string, err error) error {
	return &StageError{Kind: kind, Message: message, Err: err}
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Message
	}
	return e.Kind.Error() + ": " + e.Message + ": " + e.Err.Error()
}

// Unwrap exposes both the failure class and the cause to errors.Is.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// GenericErrorMessage is reported for failures that carry no message of their own.
const GenericErrorMessage = "Internal server error."

// classify maps an error to a status code and caller-facing message.
func classify(err error) (int, string) {
	message := GenericErrorMessage
	var se *StageError
	if errors.As(err, &se) && se.Message != "" {
		message = se.Message
	}

	switch {
	case errors.Is(err, ErrInputNotFound):
		return http.StatusBadRequest, message
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, message
	case errors.Is(err, ErrConfig), errors.Is(err, ErrReadFailed):
		return http.StatusInternalServerError, message
	default:
		return http.StatusInternalServerError, GenericErrorMessage
	}
}
