package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayGuardTTL = 24 * time.Hour

// RedisReplayGuard remembers which gateway callbacks were already
// handled, so replays are acknowledged without reprocessing. The
// database idempotency check on the transaction remains the source of
// truth; this is the fast path in front of it.
type RedisReplayGuard struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReplayGuard creates a replay guard
func NewRedisReplayGuard(client *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{
		client:    client,
		keyPrefix: "mpesa:callback:",
		ttl:       replayGuardTTL,
	}
}

// MarkHandled marks a callback as handled. Returns true if this is the
// first time the key was seen. SETNX keeps the check atomic across
// instances.
func (g *RedisReplayGuard) MarkHandled(ctx context.Context, checkoutRequestID string) (bool, error) {
	first, err := g.client.SetNX(ctx, g.keyPrefix+checkoutRequestID, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark callback as handled: %w", err)
	}
	return first, nil
}

// Forget releases a previously marked callback. Called when handling
// failed after the mark, so the gateway's retry is reprocessed instead
// of being swallowed as a replay.
func (g *RedisReplayGuard) Forget(ctx context.Context, checkoutRequestID string) error {
	if err := g.client.Del(ctx, g.keyPrefix+checkoutRequestID).Err(); err != nil {
		return fmt.Errorf("failed to release callback mark: %w", err)
	}
	return nil
}

// WasHandled checks whether a callback was already handled
func (g *RedisReplayGuard) WasHandled(ctx context.Context, checkoutRequestID string) (bool, error) {
	exists, err := g.client.Exists(ctx, g.keyPrefix+checkoutRequestID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check callback state: %w", err)
	}
	return exists > 0, nil
}
