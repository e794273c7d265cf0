// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package artifact defines the files the pipeline stages write and the
// codec used for the modeling artifacts.
//
// Modeling artifacts are gob-encoded and zstd-compressed. Every output key
// carries a second-resolution UTC timestamp. Two runs of a stage within the
// same second map to the same key; the stages refuse to write over an
// existing key, so the later run fails instead.
package artifact

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/storage"
)

// TimestampLayout is the filename timestamp format (YYYYMMDD_HHMMSS).
const TimestampLayout = "20060102_150405"

// Content types used when writing artifacts.
const (
	ContentTypeCSV = "text/csv"
	ContentTypeGob = "application/x-gob+zstd"
)

// Timestamp formats t in UTC for use in artifact names.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// PreprocessedKey returns the object key of a reduced table.
func PreprocessedKey(folder, ts string) string {
	return storage.JoinKey(folder, "preprocessed_data_"+ts+".csv")
}

// MoviesKey returns the object key of a stemmed movies artifact.
func MoviesKey(folder, ts string) string {
	return storage.JoinKey(folder, "movies_"+ts+".gob")
}

// SimilarityKey returns the object key of a similarity artifact.
func SimilarityKey(folder, ts string) string {
	return storage.JoinKey(folder, "similarity_"+ts+".gob")
}

// MoviesArtifact is the stemmed reduced table.
type MoviesArtifact struct {
	Movies    []models.Movie
	Source    string
	CreatedAt time.Time
}

// SimilarityArtifact is the all-pairs cosine similarity matrix. Row and
// column i correspond to IDs[i] and Titles[i].
type SimilarityArtifact struct {
	IDs         []string
	Titles      []string
	N           int
	Values      []float64
	Vocabulary  []string
	MaxFeatures int
	CreatedAt   time.Time
}

// At returns the similarity between rows i and j.
func (s *SimilarityArtifact) At(i, j int) float64 {
	return s.Values[i*s.N+j]
}

// Validate checks that the matrix dimensions agree with the labels.
func (s *SimilarityArtifact) Validate() error {
	if len(s.IDs) != s.N || len(s.Titles) != s.N {
		return fmt.Errorf("similarity artifact has %d ids and %d titles for n=%d", len(s.IDs), len(s.Titles), s.N)
	}
	if len(s.Values) != s.N*s.N {
		return fmt.Errorf("similarity artifact has %d values, want %d", len(s.Values), s.N*s.N)
	}
	return nil
}

// Encode gob-encodes v and compresses the result with zstd.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(enc).Encode(v); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close zstd writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode into v, which must be a pointer.
func Decode(data []byte, v any) error {
	return DecodeReader(bytes.NewReader(data), v)
}

// DecodeReader decodes an artifact read from r into v.
func DecodeReader(r io.Reader, v any) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	if err := gob.NewDecoder(dec).Decode(v); err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}
	return nil
}
