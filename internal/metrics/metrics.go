// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package metrics holds the Prometheus instrumentation for the pipeline:
// stage runs, storage calls, the HTTP trigger API, circuit breakers and the
// run ledger. Collectors are registered on the default registry through
// promauto and exposed by the serve command at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline Stage Metrics
	StageRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_runs_total",
			Help: "Total number of pipeline stage runs by outcome",
		},
		[]string{"stage", "status"}, // status: "success", "error"
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Wall-clock duration of a pipeline stage run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	RowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_rows_total",
			Help: "Rows read, dropped and written by pipeline stages",
		},
		[]string{"stage", "kind"}, // kind: "read", "dropped", "written"
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_vocabulary_size",
			Help: "Number of features in the most recent count vectorizer vocabulary",
		},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_storage_operations_total",
			Help: "Total number of object storage operations",
		},
		[]string{"operation", "status"}, // operation: "list", "get", "put"
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_storage_operation_duration_seconds",
			Help:    "Duration of object storage operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StorageBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_storage_bytes_total",
			Help: "Bytes transferred to and from object storage",
		},
		[]string{"direction"}, // "in", "out"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Ledger Metrics
	LedgerWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_ledger_write_errors_total",
			Help: "Run records that could not be persisted to the ledger",
		},
	)
)

// RecordStageRun records the outcome and duration of one stage run.
func RecordStageRun(stage string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	StageRunsTotal.WithLabelValues(stage, status).Inc()
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRows adds n rows of the given kind for a stage. Non-positive counts are ignored.
func RecordRows(stage, kind string, n int) {
	if n <= 0 {
		return
	}
	RowsTotal.WithLabelValues(stage, kind).Add(float64(n))
}

// RecordStorageOperation records one object storage call.
func RecordStorageOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStorageBytes adds transferred bytes; direction is "in" for reads, "out" for writes.
func RecordStorageBytes(direction string, n int) {
	if n <= 0 {
		return
	}
	StorageBytesTotal.WithLabelValues(direction).Add(float64(n))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
