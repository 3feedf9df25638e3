// Package kv is the storefront's snapshot persistence: every piece of state a
// browser would keep in local storage lives here as a JSON snapshot keyed by
// session. Backends are swappable (in-memory, Redis, Postgres); callers treat
// a corrupt snapshot like a missing one and rebuild from the zero value.
package kv

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no snapshot exists under the key
	ErrNotFound = errors.New("kv: key not found")

	// ErrCorrupt is returned when a stored snapshot cannot be decoded
	ErrCorrupt = errors.New("kv: corrupt snapshot")
)

// Store persists JSON snapshots under string keys.
// A ttl of zero means the snapshot never expires.
type Store interface {
	Get(ctx context.Context, key string, into interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Sweeper is implemented by backends that need explicit expiry collection
// (Redis expires keys on its own; the SQL backend does not).
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}
