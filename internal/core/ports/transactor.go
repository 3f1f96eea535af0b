package ports

import "context"

// Repositories groups the repositories bound to a single unit of work.
type Repositories struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
}

// Transactor runs fn atomically. Every read and write fn performs through
// repos is observed as one unit; if fn returns an error nothing it wrote is
// persisted.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
