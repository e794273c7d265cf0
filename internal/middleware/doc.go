// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the HTTP middleware shared by the serve command.

Key Components:

  - RequestID: UUID-based request tracking; populates the logging context
    with request and correlation IDs
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Post("/api/v1/stages/{stage}/runs", handler.TriggerStage)

Labelling by route pattern keeps metric cardinality bounded: every stage
trigger is recorded under "/api/v1/stages/{stage}/runs" rather than one
series per stage name.
*/
package middleware
