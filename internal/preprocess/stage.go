// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package preprocess implements the preprocessing stage: it joins the latest
// raw movies and credits tables on title and writes the reduced
// {movie_id, title, tags} table as a timestamped CSV.
package preprocess

import (
	"context"
	"time"

	"github.com/tomtom215/cinematch/internal/artifact"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/pipeline"
	"github.com/tomtom215/cinematch/internal/storage"
	"github.com/tomtom215/cinematch/internal/table"
)

// Caller-facing failure messages.
const (
	msgMissingFiles = "Missing required files"
	msgReadFailed   = "Failed to read files"
	msgSuccess      = "Preprocessed data uploaded successfully."
	msgExists       = "Output file already exists."
)

// Stage is the preprocessing stage.
type Stage struct {
	cfg   *config.Config
	store storage.ObjectStore
	now   func() time.Time
}

// NewStage creates the preprocessing stage.
func NewStage(cfg *config.Config, store storage.ObjectStore) *Stage {
	return &Stage{cfg: cfg, store: store, now: time.Now}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string {
	return pipeline.StagePreprocess
}

// Execute implements pipeline.Stage. Nothing is written unless every step
// before the upload succeeds.
func (s *Stage) Execute(ctx context.Context, _ pipeline.Trigger) (pipeline.Output, error) {
	if err := s.cfg.ValidatePreprocess(); err != nil {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrConfig, err.Error(), nil)
	}
	bucket := s.cfg.Buckets.Train
	logger := logging.Ctx(ctx)

	moviesKey, err := s.latest(ctx, bucket, s.cfg.Preprocess.MoviesFolder)
	if err != nil {
		return pipeline.Output{}, err
	}
	creditsKey, err := s.latest(ctx, bucket, s.cfg.Preprocess.CreditsFolder)
	if err != nil {
		return pipeline.Output{}, err
	}
	logger.Info().Str("movies", moviesKey).Str("credits", creditsKey).Msg("Using latest input files")

	movies, err := s.read(ctx, bucket, moviesKey)
	if err != nil {
		return pipeline.Output{}, err
	}
	credits, err := s.read(ctx, bucket, creditsKey)
	if err != nil {
		return pipeline.Output{}, err
	}
	if !movies.Has(ColumnTitle) || !credits.Has(ColumnTitle) {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrInputNotFound, msgMissingFiles, table.ErrColumnNotFound)
	}

	reduced, stats, err := Reduce(movies, credits)
	if err != nil {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}
	data, err := reduced.Bytes()
	if err != nil {
		return pipeline.Output{}, err
	}

	dest := s.cfg.Buckets.Preprocessed
	key := artifact.PreprocessedKey(s.cfg.Preprocess.OutputFolder, artifact.Timestamp(s.now()))
	exists, err := storage.Exists(ctx, s.store, dest, key)
	if err != nil {
		return pipeline.Output{}, err
	}
	if exists {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrConflict, msgExists, nil)
	}
	if err := s.store.Put(ctx, dest, key, data, artifact.ContentTypeCSV); err != nil {
		return pipeline.Output{}, err
	}

	return pipeline.Output{
		Message:     msgSuccess,
		Locations:   []string{storage.URI(dest, key)},
		RowsRead:    movies.Len() + credits.Len(),
		RowsDropped: stats.Dropped,
		RowsWritten: stats.Written,
	}, nil
}

func (s *Stage) latest(ctx context.Context, bucket, folder string) (string, error) {
	key, ok, err := storage.FindLatest(ctx, s.store, bucket, folder)
	if err != nil {
		return "", pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}
	if !ok {
		logging.Ctx(ctx).Warn().Str("bucket", bucket).Str("folder", folder).Msg("No files found")
		return "", pipeline.Fail(pipeline.ErrInputNotFound, msgMissingFiles, nil)
	}
	return key, nil
}

func (s *Stage) read(ctx context.Context, bucket, key string) (*table.Frame, error) {
	data, err := s.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}
	frame, err := table.ParseCSV(data)
	if err != nil {
		return nil, pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}
	return frame, nil
}
