package ports

import (
	"context"
	"time"
)

// CredentialHasher is a one-way password hash.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenRevocations remembers session tokens that were logged out before
// they expired.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
