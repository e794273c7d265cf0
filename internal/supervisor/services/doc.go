// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for the long-running parts
of cinematch serve.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve

Pipeline Scheduler (ScheduleService):
  - Runs the stage chain (preprocess, then model) on a fixed interval
  - Optionally runs once on startup
  - Stops a chain at the first failed stage

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

A failed stage run is not a service failure. The scheduler logs it and waits
for the next tick.
*/
package services
