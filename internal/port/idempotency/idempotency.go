package idempotency

import "context"

// Store remembers the outcome of bulk intake operations so a retried
// Idempotency-Key replays the stored result instead of creating duplicates.
type Store interface {
	// Check returns the stored result JSON and whether the key was seen.
	Check(ctx context.Context, key string) ([]byte, bool, error)
	// Store records the result for a key; a duplicate store is a no-op.
	Store(ctx context.Context, key, operation string, result []byte) error
}
