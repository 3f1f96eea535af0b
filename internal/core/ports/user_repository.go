package ports

import (
	"context"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsername matches the username exactly (case-sensitive) and returns
	// domain.ErrUserNotFound on a miss.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create persists a new user and returns it with its generated ID. A
	// storage-level uniqueness violation on username is reported as
	// domain.ErrDuplicateUsername.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
