// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package ledger

import (
	"context"

	"github.com/tomtom215/cinematch/internal/config"
)

// Open returns the configured ledger store and a function that releases it.
func Open(ctx context.Context, cfg *config.LedgerConfig) (Store, func() error, error) {
	if !cfg.Enabled {
		return NewMemoryStore(cfg.MemorySize), func() error { return nil }, nil
	}
	store, err := OpenDuckDBStore(ctx, cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
