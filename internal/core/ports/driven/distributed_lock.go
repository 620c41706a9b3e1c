package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates work across instances (Redis SETNX).
// Used so only one worker runs the audit retention sweep at a time.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held by another instance.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance.
	Release(ctx context.Context, name string) error
}
