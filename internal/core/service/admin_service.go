package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

const maxActivityLimit = 200

// AdminService serves the platform-wide management views.
type AdminService struct {
	users    ports.UserRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	activity ports.ActivityRepository
}

func NewAdminService(
	users ports.UserRepository,
	posts ports.PostRepository,
	comments ports.CommentRepository,
	activity ports.ActivityRepository,
) *AdminService {
	return &AdminService{users: users, posts: posts, comments: comments, activity: activity}
}

func (s *AdminService) Dashboard(ctx context.Context, principal domain.Principal) (*ports.DashboardStats, error) {
	if err := authorize(principal, domain.CapAdminister); err != nil {
		return nil, err
	}

	var stats ports.DashboardStats
	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: count users: %w", err)
	}
	if stats.Posts, err = s.posts.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: count posts: %w", err)
	}
	if stats.Comments, err = s.comments.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: count comments: %w", err)
	}
	return &stats, nil
}

func (s *AdminService) Users(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	if err := authorize(principal, domain.CapAdminister); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Activity returns the latest audit entries. limit is clamped to
// [1, maxActivityLimit].
func (s *AdminService) Activity(ctx context.Context, principal domain.Principal, limit int) ([]domain.ActivityEntry, error) {
	if err := authorize(principal, domain.CapAdminister); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	entries, err := s.activity.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

// EnsureAdmin creates the bootstrap administrator when no account with that
// username exists. It is the only path that creates an ADMIN. An existing
// account is left untouched, whatever its role.
func EnsureAdmin(
	ctx context.Context,
	users ports.UserRepository,
	hasher ports.CredentialHasher,
	username, password string,
	log zerolog.Logger,
) (bool, error) {
	if username == "" || password == "" {
		log.Warn().Msg("admin bootstrap skipped: ADMIN_USERNAME or ADMIN_PASSWORD not set")
		return false, nil
	}

	existing, err := users.FindByUsername(ctx, username)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			log.Warn().Str("username", username).Str("role", existing.Role.String()).Msg("bootstrap admin username is taken by a non-admin account")
		}
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("ensure admin: hash credential: %w", err)
	}

	_, err = users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			// Another instance won the race.
			return false, nil
		}
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	log.Info().Str("username", username).Msg("created default admin user")
	return true, nil
}
