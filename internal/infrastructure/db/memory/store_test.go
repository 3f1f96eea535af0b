package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

func seed(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &domain.User{Username: username, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func TestStore_UniqueUsername(t *testing.T) {
	s := NewStore()
	seed(t, s, "alice")

	_, err := s.Users().Create(context.Background(), &domain.User{Username: "alice", Role: domain.RoleUser})
	if err != domain.ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := s.Users().Create(context.Background(), &domain.User{Username: "Alice", Role: domain.RoleUser}); err != nil {
		t.Fatalf("usernames are case sensitive: %v", err)
	}
}

func TestStore_FindUser(t *testing.T) {
	s := NewStore()
	u := seed(t, s, "alice")

	byID, err := s.Users().FindByID(context.Background(), u.ID)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("FindByID: %v %+v", err, byID)
	}
	if _, err := s.Users().FindByUsername(context.Background(), "bob"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_ReferencesMustResolve(t *testing.T) {
	s := NewStore()
	u := seed(t, s, "alice")

	if _, err := s.Posts().Create(context.Background(), &domain.Post{Title: "x", AuthorID: "nope"}); err != domain.ErrUserNotFound {
		t.Fatalf("post with unknown author: expected ErrUserNotFound, got %v", err)
	}

	p, err := s.Posts().Create(context.Background(), &domain.Post{Title: "x", AuthorID: u.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := s.Comments().Create(context.Background(), &domain.Comment{PostID: "nope", AuthorID: u.ID}); err != domain.ErrPostNotFound {
		t.Fatalf("comment with unknown post: expected ErrPostNotFound, got %v", err)
	}
	if _, err := s.Comments().Create(context.Background(), &domain.Comment{PostID: p.ID, AuthorID: "nope"}); err != domain.ErrUserNotFound {
		t.Fatalf("comment with unknown author: expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := NewStore()
	u := seed(t, s, "alice")
	boom := errors.New("boom")

	err := s.WithinTransaction(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.Posts.Create(ctx, &domain.Post{Title: "x", AuthorID: u.ID}); err != nil {
			return err
		}
		if _, err := repos.Users.Create(ctx, &domain.User{Username: "bob", Role: domain.RoleUser}); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("expected boom, got %v", err)
	}

	if n, _ := s.Posts().Count(context.Background()); n != 0 {
		t.Fatalf("post survived rollback")
	}
	if _, err := s.Users().FindByUsername(context.Background(), "bob"); err != domain.ErrUserNotFound {
		t.Fatalf("user survived rollback: %v", err)
	}
}

func TestStore_TransactionCommits(t *testing.T) {
	s := NewStore()
	u := seed(t, s, "alice")

	err := s.WithinTransaction(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		_, err := repos.Posts.Create(ctx, &domain.Post{Title: "x", AuthorID: u.ID})
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if n, _ := s.Posts().Count(context.Background()); n != 1 {
		t.Fatalf("expected committed post, got %d", n)
	}
}

func TestStore_Ordering(t *testing.T) {
	s := NewStore()
	u := seed(t, s, "alice")
	base := time.Now()

	var postID string
	for i, title := range []string{"a", "b", "c"} {
		p, err := s.Posts().Create(context.Background(), &domain.Post{Title: title, AuthorID: u.ID, CreatedAt: base.Add(time.Duration(i) * time.Second)})
		if err != nil {
			t.Fatalf("create post: %v", err)
		}
		postID = p.ID
	}

	posts, _ := s.Posts().List(context.Background(), 2)
	if len(posts) != 2 || posts[0].Title != "c" || posts[1].Title != "b" {
		t.Fatalf("expected newest first and limited, got %+v", posts)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Comments().Create(context.Background(), &domain.Comment{PostID: postID, AuthorID: u.ID, CreatedAt: base}); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}
	comments, _ := s.Comments().ListByPost(context.Background(), postID)
	for i := 1; i < len(comments); i++ {
		if !idLess(comments[i-1].ID, comments[i].ID) {
			t.Fatalf("comments with equal timestamps not in insertion order")
		}
	}

	empty, _ := s.Comments().ListByPost(context.Background(), "none")
	if empty == nil {
		t.Fatalf("expected non-nil empty slice")
	}
}

func TestStore_DeleteComment(t *testing.T) {
	s := NewStore()
	u := seed(t, s, "alice")
	p, _ := s.Posts().Create(context.Background(), &domain.Post{Title: "x", AuthorID: u.ID})
	c, _ := s.Comments().Create(context.Background(), &domain.Comment{PostID: p.ID, AuthorID: u.ID})

	if err := s.Comments().Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Comments().Delete(context.Background(), c.ID); err != domain.ErrCommentNotFound {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestStore_ActivityRecentNewestFirst(t *testing.T) {
	s := NewStore()
	for _, k := range []domain.ActivityKind{domain.ActivityUserRegistered, domain.ActivityPostCreated} {
		_ = s.Activity().Insert(context.Background(), &domain.ActivityEntry{Kind: k})
	}
	got, _ := s.Activity().Recent(context.Background(), 10)
	if len(got) != 2 || got[0].Kind != domain.ActivityPostCreated {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestIDLess(t *testing.T) {
	if !idLess("9", "10") || idLess("10", "9") || idLess("3", "3") {
		t.Fatal("idLess must order numerically")
	}
}
