// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package storage abstracts the object storage the pipeline stages exchange
// data through: named buckets holding byte objects under "/"-delimited keys.
//
// Backends:
//   - S3Store: any S3-compatible endpoint (AWS S3, MinIO) via minio-go
//   - BadgerStore: an embedded BadgerDB directory for single-host deployments
//   - MemoryStore: process-local maps for tests
//
// BreakerStore and InstrumentedStore decorate any backend with circuit
// breaking and Prometheus metrics.
package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: object not found")

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the storage collaborator consumed by the pipeline stages.
type ObjectStore interface {
	// List returns every object in bucket whose key starts with prefix.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// Get returns the object bytes, or ErrNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Put stores data under key, replacing any existing object. Callers that
	// must not replace an object check Exists first.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// FolderPrefix turns a folder name into a listing prefix ending in "/".
// An empty folder lists the whole bucket.
func FolderPrefix(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return ""
	}
	return folder + "/"
}

// JoinKey joins a folder and a file name into an object key.
func JoinKey(folder, name string) string {
	return FolderPrefix(folder) + name
}

// URI renders a bucket and key as an s3:// location.
func URI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

// Exists reports whether bucket holds an object stored under exactly key.
func Exists(ctx context.Context, store ObjectStore, bucket, key string) (bool, error) {
	objects, err := store.List(ctx, bucket, key)
	if err != nil {
		return false, err
	}
	for _, obj := range objects {
		if obj.Key == key {
			return true, nil
		}
	}
	return false, nil
}

// FindLatest returns the key of the most recently modified object under
// folder in bucket. Folder placeholder keys (ending in "/") are ignored.
// ok is false when the folder holds no objects. Equal modification times are
// resolved in favour of the lexically greatest key, so timestamped names
// resolve to the newest file.
func FindLatest(ctx context.Context, store ObjectStore, bucket, folder string) (key string, ok bool, err error) {
	objects, err := store.List(ctx, bucket, FolderPrefix(folder))
	if err != nil {
		return "", false, err
	}

	var latest *ObjectInfo
	for i := range objects {
		obj := &objects[i]
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if latest == nil ||
			obj.LastModified.After(latest.LastModified) ||
			(obj.LastModified.Equal(latest.LastModified) && obj.Key > latest.Key) {
			latest = obj
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return latest.Key, true, nil
}

// sortObjects orders a listing by key, matching S3 list order.
func sortObjects(objects []ObjectInfo) {
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
}
