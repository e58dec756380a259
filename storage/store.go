package storage

import (
	"context"
	"errors"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is the durable key/value backend behind the session context.
// Values are plain strings; there is no schema versioning.
type Store interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or overwrites a key
	Set(ctx context.Context, key, value string) error

	// Delete removes keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error

	// Ping reports whether the backend is usable
	Ping(ctx context.Context) error
}
