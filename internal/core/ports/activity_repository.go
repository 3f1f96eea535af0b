package ports

import (
	"context"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// ActivityRepository stores the append-only audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}
