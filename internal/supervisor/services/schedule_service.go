// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/pipeline"
)

// StageRunner runs one stage and reports its result.
// Satisfied by *pipeline.Runner.
type StageRunner interface {
	Run(ctx context.Context, stage pipeline.Stage, trigger pipeline.Trigger) pipeline.Result
}

// ScheduleServiceConfig holds configuration for the scheduler.
type ScheduleServiceConfig struct {
	// RunOnStartup runs the chain once before the first tick.
	RunOnStartup bool

	// Interval between chains. Zero or negative disables periodic runs.
	Interval time.Duration

	// RunTimeout bounds one full chain. Default: 30m
	RunTimeout time.Duration
}

// ScheduleService runs the stage chain periodically under suture.
type ScheduleService struct {
	runner StageRunner
	stages []pipeline.Stage
	config ScheduleServiceConfig
	logger zerolog.Logger
	name   string
}

// NewScheduleService creates a scheduler that runs stages in order.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScheduleService(runner StageRunner, cfg ScheduleServiceConfig, logger zerolog.Logger, stages ...pipeline.Stage) *ScheduleService {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	return &ScheduleService{
		runner: runner,
		stages: stages,
		config: cfg,
		logger: logger.With().Str("service", "schedule").Logger(),
		name:   "pipeline-scheduler",
	}
}

// Serve implements suture.Service.
func (s *ScheduleService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Int("stages", len(s.stages)).
		Msg("pipeline scheduler starting")

	if s.config.RunOnStartup {
		s.RunChain(ctx)
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("pipeline scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled run triggered")
			s.RunChain(ctx)
		}
	}
}

// RunChain runs every stage in order and returns the results of the stages
// that ran. The chain stops after the first failure.
func (s *ScheduleService) RunChain(ctx context.Context) []pipeline.Result {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	results := make([]pipeline.Result, 0, len(s.stages))
	for _, stage := range s.stages {
		result := s.runner.Run(runCtx, stage, pipeline.Trigger{Source: pipeline.TriggerSchedule})
		results = append(results, result)
		if !result.OK() {
			s.logger.Warn().
				Str("stage", result.Stage).
				Int("status_code", result.StatusCode).
				Str("message", result.Message).
				Msg("scheduled chain stopped")
			break
		}
	}
	return results
}

// String identifies the service in supervisor events.
func (s *ScheduleService) String() string {
	return s.name
}
