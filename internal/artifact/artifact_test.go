// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package artifact

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := Timestamp(time.Date(2026, 3, 9, 1, 4, 5, 999, loc))
	if ts != "20260308_230405" {
		t.Errorf("Timestamp() = %q", ts)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"preprocessed", PreprocessedKey("Preprocessed", "20260101_000000"), "Preprocessed/preprocessed_data_20260101_000000.csv"},
		{"movies", MoviesKey("Movies", "20260101_000000"), "Movies/movies_20260101_000000.gob"},
		{"similarity", SimilarityKey("Similarity/", "20260101_000000"), "Similarity/similarity_20260101_000000.gob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sim := &SimilarityArtifact{
		IDs:         []string{"1", "2"},
		Titles:      []string{"A", "B"},
		N:           2,
		Values:      []float64{1, 0.25, 0.25, 1},
		Vocabulary:  []string{"action", "stori"},
		MaxFeatures: 5000,
		CreatedAt:   created,
	}

	data, err := Encode(sim)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got SimilarityArtifact
	if err := Decode(data, &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.At(0, 1) != 0.25 || !got.CreatedAt.Equal(created) {
		t.Errorf("decoded artifact = %+v", got)
	}

	movies := &MoviesArtifact{Movies: []models.Movie{{ID: "1", Title: "A", Tags: "a great stori"}}}
	data, err = Encode(movies)
	if err != nil {
		t.Fatal(err)
	}
	var gotMovies MoviesArtifact
	if err := Decode(data, &gotMovies); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotMovies.Movies, movies.Movies) {
		t.Errorf("movies = %+v", gotMovies.Movies)
	}
}

func TestDecode_Invalid(t *testing.T) {
	var v MoviesArtifact
	if err := Decode([]byte("not an artifact"), &v); err == nil {
		t.Error("Decode() of garbage should fail")
	}
}

func TestSimilarityArtifact_Validate(t *testing.T) {
	bad := &SimilarityArtifact{IDs: []string{"1"}, Titles: []string{"A"}, N: 1, Values: []float64{1, 0}}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should reject mismatched value count")
	}
}
