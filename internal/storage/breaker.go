// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// BreakerStore wraps an ObjectStore with a circuit breaker so a long-running
// server stops hammering an unavailable endpoint. ErrNotFound and context
// cancellation are not counted as failures.
type BreakerStore struct {
	next ObjectStore
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// BreakerSettings tunes the breaker; zero values take the defaults below.
type BreakerSettings struct {
	Name        string
	MinRequests uint32        // default 5
	FailureRate float64       // default 0.6
	Interval    time.Duration // default 1m
	Timeout     time.Duration // default 30s
}

// NewBreakerStore wraps next with a circuit breaker.
// Circuit breaker configuration:
// - Max 1 request in half-open state
// - Opens after FailureRate failures with at least MinRequests requests
func NewBreakerStore(next ObjectStore, settings BreakerSettings) *BreakerStore {
	if settings.Name == "" {
		settings.Name = "object-storage"
	}
	if settings.MinRequests == 0 {
		settings.MinRequests = 5
	}
	if settings.FailureRate == 0 {
		settings.FailureRate = 0.6
	}
	if settings.Interval == 0 {
		settings.Interval = time.Minute
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRate
			if shouldTrip {
				logging.Warn().Str("breaker", settings.Name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerStore{next: next, cb: cb, name: settings.Name}
}

// State returns the current breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
		return nil, fmt.Errorf("%s unavailable: %w", s.name, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
	}
	return result, err
}

// List implements ObjectStore.
func (s *BreakerStore) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.next.List(ctx, bucket, prefix)
	})
	if err != nil {
		return nil, err
	}
	objects, _ := result.([]ObjectInfo)
	return objects, nil
}

// Get implements ObjectStore.
func (s *BreakerStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.next.Get(ctx, bucket, key)
	})
	if err != nil {
		return nil, err
	}
	data, _ := result.([]byte)
	return data, nil
}

// Put implements ObjectStore.
func (s *BreakerStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.next.Put(ctx, bucket, key, data, contentType)
	})
	return err
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
