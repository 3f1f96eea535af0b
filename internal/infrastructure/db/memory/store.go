// Package memory is an in-process implementation of the persistence ports.
// It enforces the same constraints as the database backends (unique
// usernames, comment and post references must resolve) and supports
// transactions by holding the store lock and rolling back to a snapshot on
// error. It backs local development and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

type state struct {
	users     map[string]domain.User
	usernames map[string]string
	posts     map[string]domain.Post
	comments  map[string]domain.Comment
	activity  []domain.ActivityEntry
}

func (st *state) clone() *state {
	cp := &state{
		users:     make(map[string]domain.User, len(st.users)),
		usernames: make(map[string]string, len(st.usernames)),
		posts:     make(map[string]domain.Post, len(st.posts)),
		comments:  make(map[string]domain.Comment, len(st.comments)),
		activity:  append([]domain.ActivityEntry(nil), st.activity...),
	}
	for k, v := range st.users {
		cp.users[k] = v
	}
	for k, v := range st.usernames {
		cp.usernames[k] = v
	}
	for k, v := range st.posts {
		cp.posts[k] = v
	}
	for k, v := range st.comments {
		cp.comments[k] = v
	}
	return cp
}

// Store holds all entities in memory.
type Store struct {
	mu  sync.Mutex
	st  *state
	seq uint64
}

func NewStore() *Store {
	return &Store{st: &state{
		users:     make(map[string]domain.User),
		usernames: make(map[string]string),
		posts:     make(map[string]domain.Post),
		comments:  make(map[string]domain.Comment),
	}}
}

// Users returns the user repository.
func (s *Store) Users() ports.UserRepository { return &userRepo{s: s} }

// Posts returns the post repository.
func (s *Store) Posts() ports.PostRepository { return &postRepo{s: s} }

// Comments returns the comment repository.
func (s *Store) Comments() ports.CommentRepository { return &commentRepo{s: s} }

// Activity returns the activity repository.
func (s *Store) Activity() ports.ActivityRepository { return &activityRepo{s: s} }

// WithinTransaction implements ports.Transactor. The store lock is held for
// the whole of fn, so transactions are serialized.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	seq := s.seq
	err := fn(ctx, ports.Repositories{
		Users:    &userRepo{s: s, inTx: true},
		Posts:    &postRepo{s: s, inTx: true},
		Comments: &commentRepo{s: s, inTx: true},
	})
	if err != nil {
		s.st = snapshot
		s.seq = seq
	}
	return err
}

func (s *Store) with(inTx bool, fn func(st *state)) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn(s.st)
}

// nextID must be called with the lock held.
func (s *Store) nextID() string {
	s.seq++
	return strconv.FormatUint(s.seq, 10)
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct {
	s    *Store
	inTx bool
}

func (r *userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	var (
		u  domain.User
		ok bool
	)
	r.s.with(r.inTx, func(st *state) { u, ok = st.users[id] })
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	var (
		u  domain.User
		ok bool
	)
	r.s.with(r.inTx, func(st *state) {
		var id string
		if id, ok = st.usernames[username]; ok {
			u = st.users[id]
		}
	})
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	var (
		created domain.User
		err     error
	)
	r.s.with(r.inTx, func(st *state) {
		if _, exists := st.usernames[user.Username]; exists {
			err = domain.ErrDuplicateUsername
			return
		}
		created = *user
		created.ID = r.s.nextID()
		st.users[created.ID] = created
		st.usernames[created.Username] = created.ID
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *userRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	r.s.with(r.inTx, func(st *state) {
		out = make([]*domain.User, 0, len(st.users))
		for _, u := range st.users {
			u := u
			out = append(out, &u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	var n int
	r.s.with(r.inTx, func(st *state) { n = len(st.users) })
	return int64(n), nil
}

// ── posts ────────────────────────────────────────────────────────────────────

type postRepo struct {
	s    *Store
	inTx bool
}

func (r *postRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	var (
		p  domain.Post
		ok bool
	)
	r.s.with(r.inTx, func(st *state) { p, ok = st.posts[id] })
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *postRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	var (
		created domain.Post
		err     error
	)
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.users[post.AuthorID]; !ok {
			err = domain.ErrUserNotFound
			return
		}
		created = *post
		created.ID = r.s.nextID()
		st.posts[created.ID] = created
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postRepo) List(_ context.Context, limit int) ([]*domain.Post, error) {
	var out []*domain.Post
	r.s.with(r.inTx, func(st *state) {
		for _, p := range st.posts {
			p := p
			out = append(out, &p)
		}
	})
	sortPostsNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *postRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	var out []*domain.Post
	r.s.with(r.inTx, func(st *state) {
		for _, p := range st.posts {
			if p.AuthorID == authorID {
				p := p
				out = append(out, &p)
			}
		}
	})
	sortPostsNewestFirst(out)
	return out, nil
}

func (r *postRepo) Count(_ context.Context) (int64, error) {
	var n int
	r.s.with(r.inTx, func(st *state) { n = len(st.posts) })
	return int64(n), nil
}

func sortPostsNewestFirst(posts []*domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return idLess(posts[j].ID, posts[i].ID)
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// ── comments ─────────────────────────────────────────────────────────────────

type commentRepo struct {
	s    *Store
	inTx bool
}

func (r *commentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	var (
		c  domain.Comment
		ok bool
	)
	r.s.with(r.inTx, func(st *state) { c, ok = st.comments[id] })
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	var (
		created domain.Comment
		err     error
	)
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.posts[comment.PostID]; !ok {
			err = domain.ErrPostNotFound
			return
		}
		if _, ok := st.users[comment.AuthorID]; !ok {
			err = domain.ErrUserNotFound
			return
		}
		created = *comment
		created.ID = r.s.nextID()
		st.comments[created.ID] = created
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *commentRepo) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	out := []*domain.Comment{}
	r.s.with(r.inTx, func(st *state) {
		for _, c := range st.comments {
			if c.PostID == postID {
				c := c
				out = append(out, &c)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return idLess(out[i].ID, out[j].ID)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *commentRepo) Delete(_ context.Context, id string) error {
	var ok bool
	r.s.with(r.inTx, func(st *state) {
		if _, ok = st.comments[id]; ok {
			delete(st.comments, id)
		}
	})
	if !ok {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepo) Count(_ context.Context) (int64, error) {
	var n int
	r.s.with(r.inTx, func(st *state) { n = len(st.comments) })
	return int64(n), nil
}

// ── activity ─────────────────────────────────────────────────────────────────

type activityRepo struct {
	s *Store
}

func (r *activityRepo) Insert(_ context.Context, entry *domain.ActivityEntry) error {
	r.s.with(false, func(st *state) { st.activity = append(st.activity, *entry) })
	return nil
}

func (r *activityRepo) Recent(_ context.Context, limit int) ([]domain.ActivityEntry, error) {
	var out []domain.ActivityEntry
	r.s.with(false, func(st *state) {
		for i := len(st.activity) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			out = append(out, st.activity[i])
		}
	})
	return out, nil
}

// idLess orders the numeric string IDs this store generates.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
