package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies session tokens. A token carries only the
// username; the role is resolved from the credential store on every request
// so a token can never assert more than the stored account grants.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	revocations ports.TokenRevocations
	now         func() time.Time
}

// NewTokenService builds a TokenService. revocations may be nil, in which
// case logout is a no-op and tokens live until they expire.
func NewTokenService(secret string, ttl time.Duration, revocations ports.TokenRevocations) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

// Issue signs a new token for username.
func (s *TokenService) Issue(username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Authenticate implements ports.SessionAuthenticator.
func (s *TokenService) Authenticate(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	claims, err := s.parse(token)
	if err != nil {
		return "", false, nil
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", false, revocationFault("check token revocation", err)
		}
		if revoked {
			return "", false, nil
		}
	}

	return claims.Subject, true, nil
}

// Revoke invalidates token for the rest of its lifetime. Tokens that do not
// verify are ignored.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.revocations == nil || token == "" {
		return nil
	}

	claims, err := s.parse(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return revocationFault("revoke token", err)
	}
	return nil
}

func (s *TokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// revocationFault tags err as a storage fault unless the adapter already did.
func revocationFault(op string, err error) error {
	if errors.Is(err, domain.ErrStorageFault) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFault, err)
}
