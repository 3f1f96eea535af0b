// Package postgres implements the persistence ports on PostgreSQL via
// database/sql and lib/pq. Referential integrity is enforced by foreign keys;
// the transactional workflows additionally take FOR SHARE locks on the rows
// they reference.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

const (
	defaultDBDriver     = "postgres"
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
)

// PostgreSQL error codes the adapters translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Open connects to dsn, applies the pool limits and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(defaultDBDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(defaultConnMaxIdle)
	db.SetConnMaxLifetime(defaultConnMaxLife)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetMaxOpenConns(defaultMaxOpenConns)

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the repositories backed by one database and implements
// ports.Transactor.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() ports.UserRepository       { return &UserRepository{q: s.db} }
func (s *Store) Posts() ports.PostRepository       { return &PostRepository{q: s.db} }
func (s *Store) Comments() ports.CommentRepository { return &CommentRepository{q: s.db} }
func (s *Store) Activity() ports.ActivityRepository {
	return &ActivityRepository{q: s.db}
}

// WithinTransaction runs fn in a READ COMMITTED transaction. Lookups made
// through the transactional repositories lock the rows they return
// FOR SHARE until commit, so a referenced row cannot disappear between the
// check and the insert that depends on it.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageFault("begin transaction", err)
	}

	repos := ports.Repositories{
		Users:    &UserRepository{q: tx, lock: true},
		Posts:    &PostRepository{q: tx, lock: true},
		Comments: &CommentRepository{q: tx},
	}
	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageFault("commit transaction", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func storageFault(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFault, err)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func pqConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// parseID reports whether id is a well-formed row id. Malformed ids can never
// match a row and are treated as misses.
func parseID(id string) (uuid.UUID, bool) {
	u, err := uuid.Parse(id)
	return u, err == nil
}

func forShare(lock bool) string {
	if lock {
		return " FOR SHARE"
	}
	return ""
}
