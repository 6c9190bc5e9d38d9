package lock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marquee/pkg/kv"
	"marquee/pkg/logger"
)

const keyPrefix = "lock:"

// Manager provides acquire/release semantics over a namespaced seat key.
// Mutual exclusion is delegated entirely to the store's atomic
// set-if-absent: at most one caller wins within a lease window. Expiry of
// abandoned locks is store-driven; there is no reaper and no heartbeat.
type Manager interface {
	// Acquire attempts to take the lease for a seat. Returns true iff the
	// lock key was newly set; false means somebody else holds the lease.
	Acquire(ctx context.Context, resourceID string) (bool, error)

	// Release unconditionally drops the lock key. Releasing a missing or
	// already-expired lock is a no-op, not an error.
	Release(ctx context.Context, resourceID string) error

	// Held reports whether a live lease exists for the seat. Advisory:
	// the answer may be stale by the time the caller acts on it.
	Held(ctx context.Context, resourceID string) (bool, error)
}

type storeManager struct {
	store kv.Store
	lease time.Duration
	log   *logger.Logger
}

func NewManager(store kv.Store, lease time.Duration, log *logger.Logger) Manager {
	return &storeManager{
		store: store,
		lease: lease,
		log:   log,
	}
}

// Key derives the store key holding the lease for a seat.
func Key(resourceID string) string {
	return keyPrefix + resourceID
}

func (m *storeManager) Acquire(ctx context.Context, resourceID string) (bool, error) {
	// The token is not verified on release yet, but writing it keeps the
	// door open for compare-and-delete fencing later.
	token := uuid.NewString()

	acquired, err := m.store.SetIfAbsent(ctx, Key(resourceID), token, m.lease)
	if err != nil {
		return false, err
	}

	if acquired {
		m.log.Debug("Lock acquired",
			"resource_id", resourceID,
			"lease", m.lease,
		)
	}
	return acquired, nil
}

func (m *storeManager) Release(ctx context.Context, resourceID string) error {
	if err := m.store.Delete(ctx, Key(resourceID)); err != nil {
		return err
	}

	m.log.Debug("Lock released", "resource_id", resourceID)
	return nil
}

func (m *storeManager) Held(ctx context.Context, resourceID string) (bool, error) {
	return m.store.Exists(ctx, Key(resourceID))
}
