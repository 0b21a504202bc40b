package redis

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// CacheStoreInterface defines the interface for entity caching.
type CacheStoreInterface interface {
	GetSearch(ctx context.Context, key string) ([]*domain.Ride, error)
	SetSearch(ctx context.Context, key string, rides []*domain.Ride) error
	GetWallet(ctx context.Context, driverID string) (*CachedWallet, error)
	SetWallet(ctx context.Context, wallet *CachedWallet) error
	InvalidateWallet(ctx context.Context, driverID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSweepLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context, name string) error
}

// Ensure concrete types implement interfaces.
var (
	_ CacheStoreInterface = (*CacheStore)(nil)
	_ LockStoreInterface  = (*LockStore)(nil)
)
