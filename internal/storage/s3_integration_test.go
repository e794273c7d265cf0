// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/cinematch/internal/testinfra"
)

func TestS3Store_MinIO(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	server, err := testinfra.NewMinIOContainer(ctx)
	if err != nil {
		t.Fatalf("NewMinIOContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, server)

	store, err := NewS3Store(S3Options{
		Endpoint:  server.Endpoint,
		AccessKey: server.AccessKey,
		SecretKey: server.SecretKey,
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	for _, bucket := range []string{"bucket", "other"} {
		if err := store.EnsureBucket(ctx, bucket); err != nil {
			t.Fatalf("EnsureBucket(%s) error = %v", bucket, err)
		}
	}
	// Second call is a no-op on an existing bucket.
	if err := store.EnsureBucket(ctx, "bucket"); err != nil {
		t.Fatalf("EnsureBucket() repeat error = %v", err)
	}

	exerciseStore(t, store)
}
