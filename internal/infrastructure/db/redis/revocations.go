package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocations implements ports.TokenRevocations backed by Redis.
// Key format: revoked:<token_id>. Keys expire with the token they revoke.
type TokenRevocations struct {
	client *redis.Client
}

// NewTokenRevocations creates a TokenRevocations wrapping the given Redis client.
func NewTokenRevocations(client *redis.Client) *TokenRevocations {
	return &TokenRevocations{client: client}
}

// Revoke marks the token id as revoked for ttl.
func (t *TokenRevocations) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if err := t.client.Set(ctx, t.key(id), "1", ttl).Err(); err != nil {
		return storageFault("revoke token", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been revoked.
func (t *TokenRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(id)).Result()
	if err != nil {
		return false, storageFault("revocation check", err)
	}
	return n > 0, nil
}

// Ping reports whether the server is reachable.
func (t *TokenRevocations) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (t *TokenRevocations) Close() error {
	return t.client.Close()
}

func (t *TokenRevocations) key(id string) string {
	return "revoked:" + id
}
