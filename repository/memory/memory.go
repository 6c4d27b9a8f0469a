// Package memory provides a map-backed Store used by tests and as the
// default driver when no durable backend is configured.
package memory

import (
	"context"
	"errors"
	"sync"
)

// ErrWriteFailed is returned by Write while failure injection is enabled.
var ErrWriteFailed = errors.New("memory store: write failed")

// Store keeps values in process memory. It supports failure injection so
// callers can exercise their persistence-failure paths.
type Store struct {
	mu     sync.RWMutex
	values map[string]string

	failWrites bool
	writes     int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *Store) Write(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.failWrites {
		return ErrWriteFailed
	}
	s.values[key] = value
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

func (s *Store) IdentityTag() string {
	return "memory"
}

// FailWrites toggles write failure injection.
func (s *Store) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// WriteCount returns the number of Write calls observed, including
// failed ones.
func (s *Store) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
