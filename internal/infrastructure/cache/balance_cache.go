package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no cached value exists
var ErrCacheMiss = errors.New("cache: miss")

const (
	balanceKey        = "mpesa:balance"
	defaultBalanceTTL = 5 * time.Minute
)

// BalanceSnapshot is the cached result of an account balance query
type BalanceSnapshot struct {
	Parameters map[string]interface{} `json:"parameters"`
	ResultDesc string                 `json:"result_desc"`
	FetchedAt  time.Time              `json:"fetched_at"`
}

// RedisBalanceCache stores the latest account balance result. The
// balance arrives asynchronously from the gateway, so the cache is the
// bridge between the result callback and the admin query endpoint.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBalanceCache creates a balance cache with the default TTL
func NewRedisBalanceCache(client *redis.Client) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, ttl: defaultBalanceTTL}
}

// Put stores a balance snapshot
func (c *RedisBalanceCache) Put(ctx context.Context, snapshot *BalanceSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode balance snapshot: %w", err)
	}
	if err := c.client.Set(ctx, balanceKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balance snapshot: %w", err)
	}
	return nil
}

// Get returns the cached balance snapshot, or ErrCacheMiss
func (c *RedisBalanceCache) Get(ctx context.Context) (*BalanceSnapshot, error) {
	payload, err := c.client.Get(ctx, balanceKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read balance snapshot: %w", err)
	}

	var snapshot BalanceSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode balance snapshot: %w", err)
	}
	return &snapshot, nil
}
