package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// PostRepository handles persistence for posts.
type PostRepository struct {
	q    querier
	lock bool
}

const postColumns = `id, title, body, author_id, created_at`

func scanPost(row interface{ Scan(...any) error }) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	pid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1` + forShare(r.lock)
	p, err := scanPost(r.q.QueryRowContext(ctx, query, pid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, storageFault("find post", err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	created := *post
	created.ID = uuid.NewString()
	if _, ok := parseID(created.AuthorID); !ok {
		return nil, domain.ErrUserNotFound
	}

	const query = `
		INSERT INTO posts (id, title, body, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query,
		created.ID,
		created.Title,
		created.Body,
		created.AuthorID,
		created.CreatedAt,
	)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageFault("insert post", err)
	}
	return &created, nil
}

func (r *PostRepository) List(ctx context.Context, limit int) ([]*domain.Post, error) {
	if limit <= 0 {
		limit = 1000
	}
	const query = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	if _, ok := parseID(authorID); !ok {
		return []*domain.Post{}, nil
	}
	const query = `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, authorID)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageFault("list posts", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, storageFault("list posts", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageFault("list posts", err)
	}
	return posts, nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM posts`).Scan(&n); err != nil {
		return 0, storageFault("count posts", err)
	}
	return n, nil
}

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	q querier
}

const commentColumns = `id, body, post_id, author_id, created_at`

func scanComment(row interface{ Scan(...any) error }) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Body, &c.PostID, &c.AuthorID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	cid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrCommentNotFound
	}

	c, err := scanComment(r.q.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, cid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, storageFault("find comment", err)
	}
	return c, nil
}

// Create inserts comment. A foreign key violation is mapped to the missing
// side of the relationship by constraint name.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	created := *comment
	created.ID = uuid.NewString()
	if _, ok := parseID(created.PostID); !ok {
		return nil, domain.ErrPostNotFound
	}
	if _, ok := parseID(created.AuthorID); !ok {
		return nil, domain.ErrUserNotFound
	}

	const query = `
		INSERT INTO comments (id, body, post_id, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query,
		created.ID,
		created.Body,
		created.PostID,
		created.AuthorID,
		created.CreatedAt,
	)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			if strings.Contains(pqConstraint(err), "post") {
				return nil, domain.ErrPostNotFound
			}
			return nil, domain.ErrUserNotFound
		}
		return nil, storageFault("insert comment", err)
	}
	return &created, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments := make([]*domain.Comment, 0)
	if _, ok := parseID(postID); !ok {
		return comments, nil
	}

	const query = `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`
	rows, err := r.q.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, storageFault("list comments", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, storageFault("list comments", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageFault("list comments", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	cid, ok := parseID(id)
	if !ok {
		return domain.ErrCommentNotFound
	}

	result, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, cid)
	if err != nil {
		return storageFault("delete comment", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageFault("delete comment", err)
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM comments`).Scan(&n); err != nil {
		return 0, storageFault("count comments", err)
	}
	return n, nil
}
