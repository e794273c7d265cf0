// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

// Movie is one row of the reduced table: an identifier, the display title and
// the space-joined bag of words used for vectorization.
type Movie struct {
	ID    string `json:"movie_id"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

// SimilarMovie is a ranked neighbour returned by a similarity lookup.
type SimilarMovie struct {
	ID    string  `json:"movie_id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}
