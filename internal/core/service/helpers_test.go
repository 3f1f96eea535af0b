package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
	"github.com/quillpress/blog-platform/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubHasher struct {
	mu    sync.Mutex
	calls int
}

func (h *stubHasher) Hash(plaintext string) (string, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return "hashed:" + plaintext, nil
}

func (h *stubHasher) Verify(plaintext, digest string) bool {
	return digest == "hashed:"+plaintext
}

func (h *stubHasher) hashCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type stubActivity struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (a *stubActivity) Record(e domain.ActivityEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *stubActivity) kinds() []domain.ActivityKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ActivityKind, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Kind
	}
	return out
}

type stubRevocations struct {
	mu       sync.Mutex
	revoked  map[string]time.Duration
	checkErr  error
	revokeErr error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (r *stubRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if r.revokeErr != nil {
		return r.revokeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	if r.checkErr != nil {
		return false, r.checkErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[id]
	return ok, nil
}

// faultyUsers wraps a real repository and injects storage faults.
type faultyUsers struct {
	ports.UserRepository
	findErr error
}

func (f *faultyUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.UserRepository.FindByUsername(ctx, username)
}

// blindUsers never sees existing users on lookup, modelling two registrations
// that both pass the advisory check before either writes.
type blindUsers struct {
	ports.UserRepository
}

func (b *blindUsers) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

// failAfterCommentInsert lets the insert happen and then fails the unit of
// work, so the rollback path can be observed.
type failAfterCommentInsert struct {
	inner ports.Transactor
}

var errConnectionReset = errors.New("connection reset after insert")

func (f failAfterCommentInsert) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	return f.inner.WithinTransaction(ctx, func(ctx context.Context, repos ports.Repositories) error {
		repos.Comments = failingCommentCreate{repos.Comments}
		return fn(ctx, repos)
	})
}

type failingCommentCreate struct {
	ports.CommentRepository
}

func (c failingCommentCreate) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if _, err := c.CommentRepository.Create(ctx, comment); err != nil {
		return nil, err
	}
	return nil, errConnectionReset
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	store    *memory.Store
	activity *stubActivity
	hasher   *stubHasher
}

func newFixture() *fixture {
	return &fixture{store: memory.NewStore(), activity: &stubActivity{}, hasher: &stubHasher{}}
}

func (f *fixture) seedUser(username string, role domain.Role) *domain.User {
	u, err := f.store.Users().Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: "hashed:pw",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) seedPost(author *domain.User, title string) *domain.Post {
	p, err := f.store.Posts().Create(context.Background(), domain.NewPost(author, title, "body", time.Now().UTC()))
	if err != nil {
		panic(err)
	}
	return p
}

func (f *fixture) commentService() *CommentService {
	return NewCommentService(f.store, f.store.Posts(), f.store.Comments(), f.activity, discardLogger)
}

func (f *fixture) postService() *PostService {
	return NewPostService(f.store, f.store.Users(), f.store.Posts(), f.store.Comments(), f.activity, discardLogger)
}

func principalOf(u *domain.User) domain.Principal {
	return domain.NewPrincipal(u)
}
