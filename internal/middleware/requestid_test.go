// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{"generates new id", "", false},
		{"preserves upstream id", "upstream-abc-123", true},
		{"rejects control characters", "bad\nid", false},
		{"rejects oversized id", strings.Repeat("a", maxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID, correlationID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = logging.RequestIDFromContext(r.Context())
				correlationID = logging.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			headerID := rec.Header().Get(RequestIDHeader)
			if headerID != ctxID {
				t.Errorf("header id %q != context id %q", headerID, ctxID)
			}
			if correlationID == "" {
				t.Error("correlation id missing from context")
			}
			if tt.wantReused {
				if headerID != tt.incoming {
					t.Errorf("id = %q, want %q", headerID, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(headerID); err != nil {
				t.Errorf("generated id %q is not a UUID: %v", headerID, err)
			}
		})
	}
}
