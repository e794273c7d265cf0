// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ledger

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store using in-memory storage.
// Suitable for development and testing. Data is lost on restart.
type MemoryStore struct {
	runs   []Run
	mu     sync.RWMutex
	maxLen int
}

// NewMemoryStore creates a new in-memory run store.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &MemoryStore{
		runs:   make([]Run, 0, maxLen),
		maxLen: maxLen,
	}
}

// Save persists a run record.
func (s *MemoryStore) Save(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Enforce max length by removing the oldest 10%
	if len(s.runs) >= s.maxLen {
		removeCount := s.maxLen / 10
		if removeCount == 0 {
			removeCount = 1
		}
		s.runs = append(s.runs[:0:0], s.runs[removeCount:]...)
	}

	saved := *run
	saved.Locations = append([]string(nil), run.Locations...)
	s.runs = append(s.runs, saved)
	return nil
}

// Get retrieves a run by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.runs {
		if s.runs[i].ID == id {
			run := s.runs[i]
			return &run, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Query retrieves runs matching the filter, most recent first.
func (s *MemoryStore) Query(ctx context.Context, filter Filter) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Run
	for i := len(s.runs) - 1; i >= 0; i-- {
		run := s.runs[i]
		if filter.Stage != "" && run.Stage != filter.Stage {
			continue
		}
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		results = append(results, run)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}
