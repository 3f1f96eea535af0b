package postgres

import (
	"context"
	"database/sql"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// ActivityRepository persists the audit trail to the activity table.
type ActivityRepository struct {
	q querier
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEntry) error {
	const query = `
		INSERT INTO activity (kind, actor, post_id, comment_id, at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query,
		string(e.Kind),
		e.Actor,
		nullString(e.PostID),
		nullString(e.CommentID),
		e.At,
	)
	if err != nil {
		return storageFault("insert activity", err)
	}
	return nil
}

func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	const query = `
		SELECT kind, actor, post_id, comment_id, at
		FROM activity
		ORDER BY at DESC, seq DESC
		LIMIT $1`
	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storageFault("list activity", err)
	}
	defer rows.Close()

	entries := make([]domain.ActivityEntry, 0, limit)
	for rows.Next() {
		var (
			e               domain.ActivityEntry
			kind            string
			postID, comment sql.NullString
		)
		if err := rows.Scan(&kind, &e.Actor, &postID, &comment, &e.At); err != nil {
			return nil, storageFault("list activity", err)
		}
		e.Kind = domain.ActivityKind(kind)
		e.PostID = postID.String
		e.CommentID = comment.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageFault("list activity", err)
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
