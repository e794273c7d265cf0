// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real MinIO server so the S3
// storage backend and the end-to-end pipeline can be exercised against the
// same API they talk to in production:
//
//	func TestS3Store(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    minio, err := testinfra.NewMinIOContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, minio)
//
//	    store, err := storage.NewS3Store(storage.S3Options{
//	        Endpoint:  minio.Endpoint,
//	        AccessKey: minio.AccessKey,
//	        SecretKey: minio.SecretKey,
//	    })
//	    // ...
//	}
//
// All files carry the integration build tag:
//
//	go test -tags integration ./...
package testinfra
