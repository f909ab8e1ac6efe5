package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles walker profile caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// WalkerCacheTTL is short because approval status can change underneath us.
const WalkerCacheTTL = 30 * time.Second

const walkerCachePrefix = "cache:walker:"

// CachedWalker represents a cached walker profile.
type CachedWalker struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	RUT    string  `json:"rut"`
	Status string  `json:"status"`
	Rating float64 `json:"rating"`
}

// GetWalker retrieves a walker from cache. A nil result with nil error
// is a cache miss.
func (s *CacheStore) GetWalker(ctx context.Context, walkerID string) (*CachedWalker, error) {
	key := walkerCachePrefix + walkerID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var walker CachedWalker
	if err := json.Unmarshal(data, &walker); err != nil {
		return nil, err
	}
	return &walker, nil
}

// SetWalker stores a walker in cache.
func (s *CacheStore) SetWalker(ctx context.Context, walker *CachedWalker) error {
	key := walkerCachePrefix + walker.ID
	data, err := json.Marshal(walker)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, WalkerCacheTTL).Err()
}

// InvalidateWalker removes a walker from cache.
func (s *CacheStore) InvalidateWalker(ctx context.Context, walkerID string) error {
	key := walkerCachePrefix + walkerID
	return s.client.Del(ctx, key).Err()
}
