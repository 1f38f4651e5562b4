package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes cursor updates to the same session across
// processes sharing one store (several `stepwise serve` replicas on Redis).
type DistributedLocker interface {
	// Lock blocks until the session key is held or ctx is done. The lock
	// expires on its own after ttl if the holder never calls the UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
