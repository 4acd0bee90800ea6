package locker

import "context"

// AdvisoryLocker serialises critical sections across server instances.
// Implementations must take and release the lock on the same underlying
// connection; session-level pg_advisory_lock breaks otherwise.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error
}
