package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carpool/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	SearchCacheTTL = 10 * time.Second // Seat counts move during booking bursts
	WalletCacheTTL = 30 * time.Second // Recomputed after every payout anyway
)

// Key prefixes
const (
	searchCachePrefix = "cache:search:"
	walletCachePrefix = "cache:wallet:"
)

// CachedWallet represents a cached driver wallet summary.
type CachedWallet struct {
	DriverID      string  `json:"driver_id"`
	Balance       float64 `json:"balance"`
	PendingPayout float64 `json:"pending_payout"`
	SettledPayout float64 `json:"settled_payout"`
}

// GetSearch retrieves a cached ride search result. A nil slice with a nil
// error means a cache miss.
func (s *CacheStore) GetSearch(ctx context.Context, key string) ([]*domain.Ride, error) {
	data, err := s.client.Get(ctx, searchCachePrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var rides []*domain.Ride
	if err := json.Unmarshal(data, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// SetSearch stores a ride search result in cache.
func (s *CacheStore) SetSearch(ctx context.Context, key string, rides []*domain.Ride) error {
	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, searchCachePrefix+key, data, SearchCacheTTL).Err()
}

// GetWallet retrieves a cached wallet summary. Nil means a cache miss.
func (s *CacheStore) GetWallet(ctx context.Context, driverID string) (*CachedWallet, error) {
	data, err := s.client.Get(ctx, walletCachePrefix+driverID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var wallet CachedWallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// SetWallet stores a wallet summary in cache.
func (s *CacheStore) SetWallet(ctx context.Context, wallet *CachedWallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, walletCachePrefix+wallet.DriverID, data, WalletCacheTTL).Err()
}

// InvalidateWallet removes a wallet summary from cache.
func (s *CacheStore) InvalidateWallet(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, walletCachePrefix+driverID).Err()
}
