// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package modeling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/cinematch/internal/artifact"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/storage"
)

var (
	// ErrNoModel is returned when no similarity artifact has been written yet.
	ErrNoModel = errors.New("no similarity artifact found")

	// ErrUnknownTitle is returned when a title is not in the model.
	ErrUnknownTitle = errors.New("title not found in model")
)

// Index answers nearest-neighbour queries over a similarity artifact.
type Index struct {
	sim     *artifact.SimilarityArtifact
	byTitle map[string]int
	// Location is where the artifact was loaded from.
	Location string
}

// NewIndex wraps a decoded similarity artifact.
func NewIndex(sim *artifact.SimilarityArtifact) (*Index, error) {
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	idx := &Index{sim: sim, byTitle: make(map[string]int, sim.N)}
	for i, title := range sim.Titles {
		if _, seen := idx.byTitle[title]; !seen {
			idx.byTitle[title] = i
		}
	}
	return idx, nil
}

// LoadLatest reads the most recent similarity artifact from the model bucket.
func LoadLatest(ctx context.Context, store storage.ObjectStore, cfg *config.Config) (*Index, error) {
	bucket := cfg.Buckets.Model
	key, ok, err := storage.FindLatest(ctx, store, bucket, cfg.Model.SimilarityFolder)
	if err != nil {
		return nil, fmt.Errorf("find similarity artifact: %w", err)
	}
	if !ok {
		return nil, ErrNoModel
	}

	data, err := store.Get(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	var sim artifact.SimilarityArtifact
	if err := artifact.Decode(data, &sim); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	idx, err := NewIndex(&sim)
	if err != nil {
		return nil, err
	}
	idx.Location = storage.URI(bucket, key)
	return idx, nil
}

// Len returns the number of movies in the index.
func (x *Index) Len() int {
	return x.sim.N
}

// lookup finds a title exactly, then case-insensitively.
func (x *Index) lookup(title string) (int, bool) {
	if i, ok := x.byTitle[title]; ok {
		return i, true
	}
	for i, t := range x.sim.Titles {
		if strings.EqualFold(t, title) {
			return i, true
		}
	}
	return 0, false
}

// Similar returns the k movies most similar to title, highest score first.
// The movie itself is excluded and equal scores keep table order.
func (x *Index) Similar(title string, k int) ([]models.SimilarMovie, error) {
	row, ok := x.lookup(title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTitle, title)
	}

	order := make([]int, 0, x.sim.N-1)
	for j := 0; j < x.sim.N; j++ {
		if j != row {
			order = append(order, j)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x.sim.At(row, order[a]) > x.sim.At(row, order[b])
	})
	if k > 0 && len(order) > k {
		order = order[:k]
	}

	out := make([]models.SimilarMovie, len(order))
	for i, j := range order {
		out[i] = models.SimilarMovie{
			ID:    x.sim.IDs[j],
			Title: x.sim.Titles[j],
			Score: x.sim.At(row, j),
		}
	}
	return out, nil
}
