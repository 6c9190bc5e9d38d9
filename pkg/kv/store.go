package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks errors caused by the store being unreachable. The
// request that hit it is fatal as issued; callers surface it and let the
// client retry the whole request.
var ErrUnavailable = errors.New("key-value store unavailable")

// Store is the complete contract the reservation core needs from the shared
// key-value store. Every method is a single atomic round-trip; SetIfAbsent
// is the only correctness-bearing primitive in the system, everything else
// is plain reads and writes.
type Store interface {
	// SetIfAbsent atomically sets key to value with the given TTL iff the
	// key does not exist. Returns true iff the key was newly set. A zero
	// ttl means no expiry.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete removes a key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a live (non-expired) key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetRecord returns all fields of a record. A missing key yields an
	// empty map, not an error.
	GetRecord(ctx context.Context, key string) (map[string]string, error)

	// SetField writes a single field of a record, creating the record if
	// needed.
	SetField(ctx context.Context, key, field, value string) error

	// WriteRecord replaces the record under key with the given fields.
	WriteRecord(ctx context.Context, key string, fields map[string]string) error

	// ListKeys returns the live keys matching a glob pattern such as
	// "booking:*".
	ListKeys(ctx context.Context, pattern string) ([]string, error)

	// Ping verifies connectivity. Used by readiness checks.
	Ping(ctx context.Context) error
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}
