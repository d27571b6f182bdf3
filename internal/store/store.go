package store

import (
	"context"
)

// Store is the key-value persistence port the board is saved through.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key. The boolean is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}
