package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
	"github.com/quillpress/blog-platform/internal/pkg/metrics"
)

const homeListingLimit = 50

// PostService handles post authoring and the read-side content queries.
type PostService struct {
	tx       ports.Transactor
	users    ports.UserRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewPostService(
	tx ports.Transactor,
	users ports.UserRepository,
	posts ports.PostRepository,
	comments ports.CommentRepository,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		tx:       tx,
		users:    users,
		posts:    posts,
		comments: comments,
		activity: activity,
		log:      log,
		now:      time.Now,
	}
}

// Create publishes a post authored by principal. The author is resolved in
// the same transaction as the insert and is never taken from the input.
func (s *PostService) Create(ctx context.Context, principal domain.Principal, input ports.CreatePostInput) (*domain.Post, error) {
	if err := authorize(principal, domain.CapAuthorPost); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	var created *domain.Post
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos ports.Repositories) error {
		author, err := repos.Users.FindByUsername(ctx, principal.Username)
		if err != nil {
			return err
		}
		p, err := repos.Posts.Create(ctx, domain.NewPost(author, input.Title, input.Body, s.now().UTC()))
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		if domain.IsIntegrityFault(err) {
			metrics.IntegrityFaultsTotal.WithLabelValues("post_author_missing").Inc()
			s.log.Error().
				Str("integrity_fault", "post_author_missing").
				Str("username", principal.Username).
				Msg("authenticated session references a missing user")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	metrics.PostsCreatedTotal.Inc()
	s.log.Info().Str("post_id", created.ID).Str("author", principal.Username).Msg("post created")
	record(s.activity, domain.ActivityEntry{
		Kind:   domain.ActivityPostCreated,
		Actor:  principal.Username,
		PostID: created.ID,
		At:     created.CreatedAt,
	})
	return created, nil
}

// List returns the home listing, newest first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.List(ctx, homeListingLimit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Detail returns a post with its comments.
func (s *PostService) Detail(ctx context.Context, postID string) (*ports.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("post detail: %w", err)
	}
	return &ports.PostDetail{Post: post, Comments: comments}, nil
}

// ListByAuthor returns the posts written by authorID.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}
