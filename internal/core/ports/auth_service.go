package ports

import (
	"context"
	"time"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService covers registration and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
}

// SessionAuthenticator extracts the authenticated username from a session
// token. ok is false when the token is absent, malformed, expired or revoked.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (username string, ok bool, err error)
}

// IdentityResolver turns an authenticated username into a Principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (domain.Principal, error)
}
