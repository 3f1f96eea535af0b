package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
	"github.com/quillpress/blog-platform/internal/pkg/metrics"
)

// CommentService is the comment authoring workflow.
type CommentService struct {
	tx       ports.Transactor
	posts    ports.PostRepository
	comments ports.CommentRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewCommentService(
	tx ports.Transactor,
	posts ports.PostRepository,
	comments ports.CommentRepository,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{
		tx:       tx,
		posts:    posts,
		comments: comments,
		activity: activity,
		log:      log,
		now:      time.Now,
	}
}

// Submit creates a comment by principal on postID. The post lookup, the
// author lookup and the insert run in one transaction, so a comment whose
// post or author does not resolve is never visible.
func (s *CommentService) Submit(ctx context.Context, principal domain.Principal, postID, body string) (*domain.Comment, error) {
	if err := authorize(principal, domain.CapComment); err != nil {
		return nil, err
	}

	var created *domain.Comment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos ports.Repositories) error {
		post, err := repos.Posts.FindByID(ctx, postID)
		if err != nil {
			return err
		}

		author, err := repos.Users.FindByUsername(ctx, principal.Username)
		if err != nil {
			return err
		}

		c, err := repos.Comments.Create(ctx, domain.NewComment(post, author, body, s.now().UTC()))
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		if domain.IsIntegrityFault(err) {
			s.integrityFault("comment_author_missing", principal, postID)
		}
		return nil, fmt.Errorf("submit comment: %w", err)
	}

	metrics.CommentsCreatedTotal.Inc()
	s.log.Info().
		Str("comment_id", created.ID).
		Str("post_id", created.PostID).
		Str("author", principal.Username).
		Msg("comment created")
	record(s.activity, domain.ActivityEntry{
		Kind:      domain.ActivityCommentCreated,
		Actor:     principal.Username,
		PostID:    created.PostID,
		CommentID: created.ID,
		At:        created.CreatedAt,
	})
	return created, nil
}

// ListForPost returns the comments of an existing post.
func (s *CommentService) ListForPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Remove deletes a comment. Only administrators may remove content.
func (s *CommentService) Remove(ctx context.Context, principal domain.Principal, commentID string) error {
	if err := authorize(principal, domain.CapAdminister); err != nil {
		return err
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return err
		}
		return fmt.Errorf("remove comment: %w", err)
	}

	s.log.Info().Str("comment_id", commentID).Str("admin", principal.Username).Msg("comment removed")
	record(s.activity, domain.ActivityEntry{
		Kind:      domain.ActivityCommentRemoved,
		Actor:     principal.Username,
		PostID:    comment.PostID,
		CommentID: commentID,
		At:        s.now().UTC(),
	})
	return nil
}

func (s *CommentService) integrityFault(kind string, principal domain.Principal, postID string) {
	metrics.IntegrityFaultsTotal.WithLabelValues(kind).Inc()
	s.log.Error().
		Str("integrity_fault", kind).
		Str("username", principal.Username).
		Str("post_id", postID).
		Msg("authenticated session references a missing user")
	record(s.activity, domain.ActivityEntry{
		Kind:   domain.ActivityIntegrityFault,
		Actor:  principal.Username,
		PostID: postID,
		At:     s.now().UTC(),
	})
}
