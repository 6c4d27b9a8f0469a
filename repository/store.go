package repository

import "context"

// Store is the key/value persistence contract the task model depends on.
// Implementations may fail on any call; the model layer decides what
// survives a failure.
type Store interface {
	// Read returns the value under key and whether the key was present.
	Read(ctx context.Context, key string) (string, bool, error)
	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear removes every key held by the store.
	Clear(ctx context.Context) error
	// IdentityTag names the backing store for diagnostics.
	IdentityTag() string
}
