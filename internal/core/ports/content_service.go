package ports

import (
	"context"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// CreatePostInput carries the fields of a new post. The author is always the
// acting principal.
type CreatePostInput struct {
	Title string
	Body  string
}

// PostDetail is a post together with its comments.
type PostDetail struct {
	Post     *domain.Post
	Comments []*domain.Comment
}

// PostService covers post authoring and the read-side queries.
type PostService interface {
	Create(ctx context.Context, principal domain.Principal, input CreatePostInput) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Detail(ctx context.Context, postID string) (*PostDetail, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
}

// CommentService is the comment authoring workflow.
type CommentService interface {
	Submit(ctx context.Context, principal domain.Principal, postID, body string) (*domain.Comment, error)
	ListForPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Remove(ctx context.Context, principal domain.Principal, commentID string) error
}

// DashboardStats summarises platform content for administrators.
type DashboardStats struct {
	Users    int64
	Posts    int64
	Comments int64
}

// AdminService exposes platform-wide management views.
type AdminService interface {
	Dashboard(ctx context.Context, principal domain.Principal) (*DashboardStats, error)
	Users(ctx context.Context, principal domain.Principal) ([]*domain.User, error)
	Activity(ctx context.Context, principal domain.Principal, limit int) ([]domain.ActivityEntry, error)
}
