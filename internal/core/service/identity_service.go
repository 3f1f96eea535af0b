package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

// IdentityService resolves authenticated usernames to principals.
type IdentityService struct {
	users ports.UserRepository
}

func NewIdentityService(users ports.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// Resolve looks the user up by exact username. A miss is reported as
// domain.ErrUnknownPrincipal; any other failure is returned wrapped and keeps
// its storage-fault identity.
func (s *IdentityService) Resolve(ctx context.Context, username string) (domain.Principal, error) {
	if username == "" {
		return domain.Anonymous, domain.ErrUnknownPrincipal
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Anonymous, domain.ErrUnknownPrincipal
		}
		return domain.Anonymous, fmt.Errorf("resolve principal: %w", err)
	}
	if !user.Role.Valid() {
		return domain.Anonymous, fmt.Errorf("resolve principal %q: %w: invalid role", username, domain.ErrStorageFault)
	}

	return domain.NewPrincipal(user), nil
}
