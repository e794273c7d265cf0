// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// InstrumentedStore records Prometheus metrics and debug logs for every call.
type InstrumentedStore struct {
	next ObjectStore
}

// Instrument wraps next with metrics.
func Instrument(next ObjectStore) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

// List implements ObjectStore.
func (s *InstrumentedStore) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	start := time.Now()
	objects, err := s.next.List(ctx, bucket, prefix)
	metrics.RecordStorageOperation("list", time.Since(start), err)
	logging.Ctx(ctx).Debug().Str("bucket", bucket).Str("prefix", prefix).Int("objects", len(objects)).Err(err).Msg("storage list")
	return objects, err
}

// Get implements ObjectStore.
func (s *InstrumentedStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.next.Get(ctx, bucket, key)
	// ErrNotFound is not counted as a failed call.
	var recorded error
	if err != nil && !errors.Is(err, ErrNotFound) {
		recorded = err
	}
	metrics.RecordStorageOperation("get", time.Since(start), recorded)
	metrics.RecordStorageBytes("in", len(data))
	logging.Ctx(ctx).Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Err(err).Msg("storage get")
	return data, err
}

// Put implements ObjectStore.
func (s *InstrumentedStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	start := time.Now()
	err := s.next.Put(ctx, bucket, key, data, contentType)
	metrics.RecordStorageOperation("put", time.Since(start), err)
	if err == nil {
		metrics.RecordStorageBytes("out", len(data))
	}
	logging.Ctx(ctx).Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Err(err).Msg("storage put")
	return err
}
