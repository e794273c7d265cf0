// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"fmt"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
)

// Open builds the configured backend wrapped with metrics and, when enabled,
// a circuit breaker. The returned close function releases backend resources.
func Open(cfg *config.StorageConfig) (ObjectStore, func() error, error) {
	var (
		backend ObjectStore
		closeFn = func() error { return nil }
	)

	switch cfg.Backend {
	case "s3":
		s3, err := NewS3Store(S3Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		backend = s3
	case "badger":
		db, err := OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		backend = db
		closeFn = db.Close
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	logging.Info().Str("backend", cfg.Backend).Bool("circuit_breaker", cfg.CircuitBreaker).Msg("Object storage ready")

	var store ObjectStore = Instrument(backend)
	if cfg.CircuitBreaker {
		store = NewBreakerStore(store, BreakerSettings{Name: "object-storage-" + cfg.Backend})
	}
	return store, closeFn, nil
}
