// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor provides process supervision for cinematch serve using
suture v4.

	RootSupervisor ("cinematch")
	├── PipelineSupervisor ("pipeline-layer")
	│   └── ScheduleService (if schedule.interval > 0 or run_on_startup)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog into the zerolog logger (see logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddPipelineService(services.NewScheduleService(runner, cfg, logger, stages...))
	return tree.Serve(ctx)
*/
package supervisor
