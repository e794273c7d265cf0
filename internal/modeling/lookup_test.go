// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package modeling

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/cinematch/internal/pipeline"
	"github.com/tomtom215/cinematch/internal/storage"
)

func TestLoadLatest_Similar(t *testing.T) {
	store := storage.NewMemoryStore()
	store.PutAt("preprocessed", "Preprocessed/p.csv", []byte(reducedCSV), fixedNow)
	cfg := testConfig()

	if _, err := LoadLatest(context.Background(), store, cfg); !errors.Is(err, ErrNoModel) {
		t.Fatalf("LoadLatest() before modeling error = %v, want ErrNoModel", err)
	}

	if _, err := newTestStage(store, cfg).Execute(context.Background(), pipeline.Trigger{}); err != nil {
		t.Fatal(err)
	}

	idx, err := LoadLatest(context.Background(), store, cfg)
	if err != nil {
		t.Fatalf("LoadLatest() error = %v", err)
	}
	if idx.Len() != 4 || idx.Location != "s3://model/Similarity/similarity_20260601_120000.gob" {
		t.Errorf("index = %d movies from %s", idx.Len(), idx.Location)
	}

	tests := []struct {
		name      string
		title     string
		k         int
		wantFirst string
		wantLen   int
		wantErr   error
	}{
		{"nearest neighbour", "A", 1, "B", 1, nil},
		{"case insensitive", "b", 2, "A", 2, nil},
		{"all others", "A", 0, "B", 3, nil},
		{"unknown", "Z", 3, "", 0, ErrUnknownTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Similar(tt.title, tt.k)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Similar() error = %v, want %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("Similar() returned %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Title != tt.wantFirst {
				t.Errorf("first = %q, want %q", got[0].Title, tt.wantFirst)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Score > got[i-1].Score {
					t.Errorf("results not sorted: %v", got)
				}
			}
			for _, m := range got {
				if m.Title == tt.title {
					t.Errorf("result includes the query title")
				}
			}
		})
	}
}
