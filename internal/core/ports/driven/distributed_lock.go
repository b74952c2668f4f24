package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates token refreshes across instances so that two
// concurrent expired-token requests do not both hit the provider's token
// endpoint.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held by another holder.
	// The lock auto-expires after TTL.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Best-effort; TTL expiry is the
	// backstop. Safe to call when the lock is not held.
	Release(ctx context.Context, name string) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
