// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package modeling implements the modeling stage. It stems the tags of the
// latest reduced table, builds bag-of-words vectors, computes the all-pairs
// cosine similarity matrix and writes the stemmed table and the matrix as a
// pair of artifacts sharing one timestamp.
//
// The package also loads those artifacts back for similarity lookups.
package modeling

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cinematch/internal/artifact"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/pipeline"
	"github.com/tomtom215/cinematch/internal/storage"
	"github.com/tomtom215/cinematch/internal/table"
	"github.com/tomtom215/cinematch/internal/textproc"
)

const (
	msgNoSource   = "No file found in source bucket."
	msgReadFailed = "Error reading CSV file."
	msgSuccess    = "Files processed and uploaded successfully."
	msgExists     = "Output files already exist."
)

// ErrEmptyVocabulary is returned when the source table yields no vocabulary
// term, either because it has no rows or because every tag is a stop word.
// It is unclassified, so the run reports a generic internal error.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no indexable terms")

// Stage is the modeling stage.
type Stage struct {
	cfg   *config.Config
	store storage.ObjectStore
	now   func() time.Time
}

// NewStage creates the modeling stage.
func NewStage(cfg *config.Config, store storage.ObjectStore) *Stage {
	return &Stage{cfg: cfg, store: store, now: time.Now}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string {
	return pipeline.StageModel
}

// Execute implements pipeline.Stage.
func (s *Stage) Execute(ctx context.Context, _ pipeline.Trigger) (pipeline.Output, error) {
	if err := s.cfg.ValidateModel(); err != nil {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrConfig, err.Error(), nil)
	}
	logger := logging.Ctx(ctx)
	source := s.cfg.Buckets.Preprocessed

	key, ok, err := storage.FindLatest(ctx, s.store, source, s.cfg.Model.SourceFolder)
	if err != nil {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}
	if !ok {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrInputNotFound, msgNoSource, nil)
	}
	logger.Info().Str("source", storage.URI(source, key)).Msg("Using latest preprocessed file")

	data, err := s.store.Get(ctx, source, key)
	if err != nil {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}
	movies, err := readMovies(data)
	if err != nil {
		return pipeline.Output{}, pipeline.Fail(pipeline.ErrReadFailed, msgReadFailed, err)
	}

	model := Build(movies, s.cfg.Model.MaxFeatures)
	if len(model.Vocabulary) == 0 {
		return pipeline.Output{}, ErrEmptyVocabulary
	}
	metrics.VocabularySize.Set(float64(len(model.Vocabulary)))
	logger.Debug().Int("movies", len(movies)).Int("vocabulary", len(model.Vocabulary)).Msg("Similarity matrix computed")

	created := s.now()
	ts := artifact.Timestamp(created)
	moviesArtifact := &artifact.MoviesArtifact{
		Movies:    model.Movies,
		Source:    storage.URI(source, key),
		CreatedAt: created.UTC(),
	}
	simArtifact := model.Artifact(s.cfg.Model.MaxFeatures, created)

	moviesData, err := artifact.Encode(moviesArtifact)
	if err != nil {
		return pipeline.Output{}, err
	}
	simData, err := artifact.Encode(simArtifact)
	if err != nil {
		return pipeline.Output{}, err
	}

	dest := s.cfg.Buckets.Model
	uploads := []struct {
		key  string
		data []byte
	}{
		{artifact.MoviesKey(s.cfg.Model.MoviesFolder, ts), moviesData},
		{artifact.SimilarityKey(s.cfg.Model.SimilarityFolder, ts), simData},
	}
	// Both keys are checked before either object is written.
	for _, u := range uploads {
		exists, err := storage.Exists(ctx, s.store, dest, u.key)
		if err != nil {
			return pipeline.Output{}, err
		}
		if exists {
			return pipeline.Output{}, pipeline.Fail(pipeline.ErrConflict, msgExists, nil)
		}
	}
	locations := make([]string, 0, len(uploads))
	for _, u := range uploads {
		if err := s.store.Put(ctx, dest, u.key, u.data, artifact.ContentTypeGob); err != nil {
			return pipeline.Output{}, err
		}
		locations = append(locations, storage.URI(dest, u.key))
	}

	return pipeline.Output{
		Message:     msgSuccess,
		Locations:   locations,
		RowsRead:    len(movies),
		RowsWritten: len(movies),
	}, nil
}

// readMovies parses a reduced table. A missing tags column is a read error.
func readMovies(data []byte) ([]models.Movie, error) {
	frame, err := table.ParseCSV(data)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"movie_id", "title", "tags"} {
		if !frame.Has(col) {
			return nil, table.ErrColumnNotFound
		}
	}
	movies := make([]models.Movie, frame.Len())
	for i := range movies {
		movies[i] = models.Movie{
			ID:    frame.Value(i, "movie_id"),
			Title: frame.Value(i, "title"),
			Tags:  frame.Value(i, "tags"),
		}
	}
	return movies, nil
}

// Model is the in-memory result of a modeling run.
type Model struct {
	Movies     []models.Movie
	Vocabulary []string
	Similarity *textproc.Matrix
}

// Build stems the tags of movies and computes their similarity matrix. The
// input slice is not modified.
func Build(movies []models.Movie, maxFeatures int) *Model {
	stemmed := make([]models.Movie, len(movies))
	docs := make([]string, len(movies))
	for i, m := range movies {
		m.Tags = textproc.StemText(m.Tags)
		stemmed[i] = m
		docs[i] = m.Tags
	}

	vec := textproc.NewCountVectorizer(maxFeatures)
	vectors := vec.FitTransform(docs)

	return &Model{
		Movies:     stemmed,
		Vocabulary: vec.Vocabulary(),
		Similarity: textproc.Cosine(vectors),
	}
}

// Artifact converts the model into its persisted similarity form.
func (m *Model) Artifact(maxFeatures int, created time.Time) *artifact.SimilarityArtifact {
	ids := make([]string, len(m.Movies))
	titles := make([]string, len(m.Movies))
	for i, mv := range m.Movies {
		ids[i] = mv.ID
		titles[i] = mv.Title
	}
	return &artifact.SimilarityArtifact{
		IDs:         ids,
		Titles:      titles,
		N:           m.Similarity.N,
		Values:      m.Similarity.Values,
		Vocabulary:  m.Vocabulary,
		MaxFeatures: maxFeatures,
		CreatedAt:   created.UTC(),
	}
}
