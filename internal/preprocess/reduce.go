// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package preprocess

import (
	"fmt"
	"strings"

	"github.com/tomtom215/cinematch/internal/table"
)

// Column names of the reduced table.
const (
	ColumnMovieID = "movie_id"
	ColumnTitle   = "title"
	ColumnTags    = "tags"
)

// projected lists the columns kept after the join, in order.
var projected = []string{ColumnMovieID, ColumnTitle, "overview", "genres", "keywords", "cast", "crew"}

// candidates returns the merged-table columns that may feed an output column,
// most preferred first. Credits carry the authoritative cast and crew.
func candidates(name string) []string {
	switch name {
	case "cast", "crew":
		return []string{name, name + table.RightSuffix, name + table.LeftSuffix}
	case ColumnMovieID:
		return []string{
			ColumnMovieID, ColumnMovieID + table.LeftSuffix, ColumnMovieID + table.RightSuffix,
			"id", "id" + table.LeftSuffix, "id" + table.RightSuffix,
		}
	default:
		return []string{name, name + table.LeftSuffix, name + table.RightSuffix}
	}
}

// projection resolves each projected column against the merged table.
func projection(merged *table.Frame) ([]table.Projection, error) {
	out := make([]table.Projection, 0, len(projected))
	for _, name := range projected {
		found := false
		for _, src := range candidates(name) {
			if merged.Has(src) {
				out = append(out, table.Projection{Name: name, Source: src})
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", table.ErrColumnNotFound, name)
		}
	}
	return out, nil
}

// Stats counts rows through the reduction.
type Stats struct {
	Joined  int
	Dropped int
	Written int
}

// Reduce joins movies and credits on title and derives the reduced
// {movie_id, title, tags} table.
func Reduce(movies, credits *table.Frame) (*table.Frame, Stats, error) {
	var stats Stats

	merged, err := table.Merge(movies, credits, ColumnTitle)
	if err != nil {
		return nil, stats, err
	}
	stats.Joined = merged.Len()

	cols, err := projection(merged)
	if err != nil {
		return nil, stats, err
	}
	selected, err := merged.Select(cols)
	if err != nil {
		return nil, stats, err
	}
	complete, dropped := selected.DropNulls()
	stats.Dropped = dropped

	out, err := table.New(ColumnMovieID, ColumnTitle, ColumnTags)
	if err != nil {
		return nil, stats, err
	}
	for i := 0; i < complete.Len(); i++ {
		tags := BuildTags(
			complete.Value(i, "overview"),
			DecodeNames(complete.Value(i, "genres")),
			DecodeNames(complete.Value(i, "keywords")),
			DecodeNames(complete.Value(i, "cast")),
			DecodeDirector(complete.Value(i, "crew")),
		)
		if tags == "" {
			stats.Dropped++
			continue
		}
		if err := out.Append(complete.Value(i, ColumnMovieID), complete.Value(i, ColumnTitle), tags); err != nil {
			return nil, stats, err
		}
	}
	stats.Written = out.Len()
	return out, stats, nil
}

// BuildTags concatenates the overview words with the normalized genre,
// keyword, cast and director names, joined by single spaces and lowercased.
func BuildTags(overview string, genres, keywords, cast, director []string) string {
	words := strings.Fields(overview)
	for _, group := range [][]string{genres, keywords, cast, director} {
		for _, name := range group {
			if n := NormalizeName(name); n != "" {
				words = append(words, n)
			}
		}
	}
	return strings.ToLower(strings.Join(words, " "))
}
