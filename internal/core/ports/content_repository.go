package ports

import (
	"context"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// PostRepository persists posts. There is no update method: a post's author
// is fixed once created.
type PostRepository interface {
	// FindByID returns domain.ErrPostNotFound on a miss, including for IDs that
	// are not well-formed for the backend.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// List returns up to limit posts, newest first.
	List(ctx context.Context, limit int) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	Count(ctx context.Context) (int64, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	// ListByPost returns the comments of a post, oldest first.
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
