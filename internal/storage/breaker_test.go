// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// flakyStore fails every call while down is true.
type flakyStore struct {
	*MemoryStore
	down  bool
	calls int
}

var errUnavailable = errors.New("endpoint unavailable")

func (f *flakyStore) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	f.calls++
	if f.down {
		return nil, errUnavailable
	}
	return f.MemoryStore.List(ctx, bucket, prefix)
}

func TestBreakerStore_OpensAfterFailures(t *testing.T) {
	backend := &flakyStore{MemoryStore: NewMemoryStore(), down: true}
	store := NewBreakerStore(backend, BreakerSettings{
		Name:        "test-open",
		MinRequests: 3,
		Timeout:     time.Hour,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.List(ctx, "b", ""); !errors.Is(err, errUnavailable) {
			t.Fatalf("call %d error = %v, want errUnavailable", i, err)
		}
	}
	if store.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", store.State())
	}

	_, err := store.List(ctx, "b", "")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker error = %v, want ErrOpenState", err)
	}
	if backend.calls != 3 {
		t.Errorf("backend called %d times, want 3", backend.calls)
	}
}

func TestBreakerStore_NotFoundIsNotAFailure(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(), BreakerSettings{Name: "test-notfound", MinRequests: 2})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Get(ctx, "b", "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	}
	if store.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", store.State())
	}
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(), BreakerSettings{Name: "test-pass"})
	exerciseStore(t, store)
}

func TestInstrumentedStore_PassesThrough(t *testing.T) {
	exerciseStore(t, Instrument(NewMemoryStore()))
}

func TestStateToString(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
