// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	objectKeyPrefix = "obj:"
	metaKeyPrefix   = "meta:"
)

// objectMeta is stored beside each object so listings do not read object bodies.
type objectMeta struct {
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
}

// BadgerStore implements ObjectStore on an embedded BadgerDB.
// Bucket names cannot contain "/", so "<bucket>/<key>" is unambiguous.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadgerStore opens (or creates) a BadgerDB directory. An empty path opens
// an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &BadgerStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func objectKey(bucket, key string) []byte {
	return []byte(objectKeyPrefix + bucket + "/" + key)
}

func metaKey(bucket, key string) []byte {
	return []byte(metaKeyPrefix + bucket + "/" + key)
}

// List implements ObjectStore.
func (s *BadgerStore) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bucketPrefix := metaKeyPrefix + bucket + "/"
	var objects []ObjectInfo

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := []byte(bucketPrefix + prefix)
		for it.Seek(seek); it.ValidForPrefix(seek); it.Next() {
			item := it.Item()
			var meta objectMeta
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode metadata for %s: %w", item.Key(), err)
			}
			objects = append(objects, ObjectInfo{
				Key:          strings.TrimPrefix(string(item.KeyCopy(nil)), bucketPrefix),
				Size:         meta.Size,
				LastModified: meta.LastModified,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, err)
	}
	return objects, nil
}

// Get implements ObjectStore.
func (s *BadgerStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(objectKey(bucket, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get object: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements ObjectStore. Object and metadata are written in one transaction.
func (s *BadgerStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta, err := json.Marshal(objectMeta{
		Size:         int64(len(data)),
		LastModified: s.now().UTC(),
		ContentType:  contentType,
	})
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(objectKey(bucket, key), data); err != nil {
			return fmt.Errorf("set object: %w", err)
		}
		if err := txn.Set(metaKey(bucket, key), meta); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}
		return nil
	})
}
