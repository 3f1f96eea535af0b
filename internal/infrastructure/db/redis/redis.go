// Package redis holds the token revocation set. Revoked session ids are kept
// as keys that expire together with the token they revoke, so the set never
// needs pruning.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

const (
	defaultTimeout  = 3 * time.Second
	defaultPoolSize = 10
)

// Config describes the revocation store connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// Timeout bounds dialing, each read and write, and the startup ping.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// options translates cfg into client options. Revocation checks sit on the
// request path, so every network step is bounded by the same timeout.
func (c Config) options() *redis.Options {
	pool := c.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	timeout := c.timeout()
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     pool,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
	}
}

// Connect creates a client for cfg and checks it with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w: %w", cfg.Addr, domain.ErrStorageFault, err)
	}
	return client, nil
}

// Open connects to Redis and returns the revocation set backed by it. The
// caller owns the returned set and must Close it.
func Open(ctx context.Context, cfg Config) (*TokenRevocations, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewTokenRevocations(client), nil
}

func storageFault(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFault, err)
}
