// Package bolt provides a bbolt-backed Store so the collection survives
// process restarts without any external service.
package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bboltlib "go.etcd.io/bbolt"
)

const defaultBucket = "documents"

// Store persists values in a single bbolt bucket, one key per document.
type Store struct {
	db     *bboltlib.DB
	bucket []byte
}

// Open initializes the bbolt file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bboltlib.Open(path, 0o600, &bboltlib.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bboltlib.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, bboltlib.ErrDatabaseNotOpen
	}
	var value []byte
	var found bool
	err := s.db.View(func(tx *bboltlib.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(key))
		if raw != nil {
			found = true
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	return string(value), found, err
}

func (s *Store) Write(ctx context.Context, key, value string) error {
	if s == nil || s.db == nil {
		return bboltlib.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bboltlib.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return bboltlib.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bboltlib.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bboltlib.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bboltlib.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	})
}

func (s *Store) IdentityTag() string {
	if s == nil || s.db == nil {
		return "bolt"
	}
	return "bolt:" + s.db.Path()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
