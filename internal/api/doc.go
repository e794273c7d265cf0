// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api exposes the pipeline over HTTP for the serve command.

Endpoints:

	POST /api/v1/stages/{stage}/runs   trigger "preprocess" or "model"
	GET  /api/v1/runs                  recent runs from the ledger
	GET  /api/v1/health/live           liveness
	GET  /metrics                      Prometheus exposition

Every JSON response uses the models.APIResponse envelope. A stage trigger
answers with the stage Result as data and the Result's status code as the
HTTP status, so an input-not-found failure is a 400 and a read failure a
500, exactly as the CLI reports them.

The trigger request body is optional. When present it must be JSON and is
passed to the stage as an opaque payload.

Middleware (chi):

  - middleware.RequestID: X-Request-ID and logging context
  - chi Recoverer
  - middleware.PrometheusMetrics
  - go-chi/httprate limiting on stage triggers
*/
package api
