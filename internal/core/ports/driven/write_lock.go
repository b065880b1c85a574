package driven

import (
	"context"
	"time"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// UnlockFunc releases one acquisition of a write lock. After the lock has
// expired or passed to another writer it does nothing.
type UnlockFunc func(ctx context.Context) error

// WriteLock serialises writes to one service date across API instances.
// Every write is still a compare-and-set; the lock only keeps concurrent
// savers from spending their merge attempts against each other.
type WriteLock interface {
	// TryLock takes the date's lock without blocking. ok is false while another
	// writer holds it. The lock expires after ttl on backends that support expiry.
	// Not reentrant.
	TryLock(ctx context.Context, date domain.ServiceDate, ttl time.Duration) (unlock UnlockFunc, ok bool, err error)
}
