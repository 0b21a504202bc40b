package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSweepLock attempts to acquire the named single-runner lock used by
// background sweeps. Returns true if the lock was acquired, false if another
// instance already holds it.
func (s *LockStore) AcquireSweepLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:sweep:%s", name)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSweepLock releases the named sweep lock.
func (s *LockStore) ReleaseSweepLock(ctx context.Context, name string) error {
	key := fmt.Sprintf("lock:sweep:%s", name)

	return s.client.Del(ctx, key).Err()
}
