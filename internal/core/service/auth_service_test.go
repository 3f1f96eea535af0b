package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/infrastructure/security"
)

func newAuthSvc(f *fixture) (*AuthService, *stubRevocations) {
	rev := newStubRevocations()
	tokens := NewTokenService("secret", time.Hour, rev)
	return NewAuthService(f.store.Users(), f.hasher, tokens, f.activity, discardLogger), rev
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	user, err := svc.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected user with generated id, got %+v", user)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if !f.hasher.Verify("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if kinds := f.activity.kinds(); len(kinds) != 1 || kinds[0] != domain.ActivityUserRegistered {
		t.Fatalf("expected one user.registered entry, got %v", kinds)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	if _, err := svc.Register(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "   ", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for blank username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	_, err := svc.Register(context.Background(), "bob", strings.Repeat("a", domain.MaxPasswordBytes+1))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	// 40 two-byte runes exceed the limit even though the rune count does not.
	_, err = svc.Register(context.Background(), "bob", strings.Repeat("é", 40))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for multibyte password, got %v", err)
	}
	if _, err := f.store.Users().FindByUsername(context.Background(), "bob"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("rejected registration must not create a user, got %v", err)
	}

	if _, err := svc.Register(context.Background(), "bob", strings.Repeat("a", domain.MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d-byte password to register, got %v", domain.MaxPasswordBytes, err)
	}
}

func TestAuthService_Register_PasswordLimitWithBcrypt(t *testing.T) {
	f := newFixture()
	tokens := NewTokenService("secret", time.Hour, nil)
	svc := NewAuthService(f.store.Users(), security.NewBcryptHasher(4), tokens, f.activity, discardLogger)

	_, err := svc.Register(context.Background(), "bob", strings.Repeat("a", domain.MaxPasswordBytes+1))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", strings.Repeat("a", domain.MaxPasswordBytes)); err != nil {
		t.Fatalf("expected registration at the limit, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "bob", strings.Repeat("a", domain.MaxPasswordBytes)); err != nil {
		t.Fatalf("expected login at the limit, got %v", err)
	}
}

func TestAuthService_Register_DuplicateSequential(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	if _, err := svc.Register(context.Background(), "bob", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass2"); err != domain.ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if n := f.hasher.hashCalls(); n != 1 {
		t.Fatalf("duplicate registration must not hash; hash called %d times", n)
	}
	if n, _ := f.store.Users().Count(context.Background()); n != 1 {
		t.Fatalf("expected 1 stored user, got %d", n)
	}
}

func TestAuthService_Register_UsernameIsCaseSensitive(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	if _, err := svc.Register(context.Background(), "Carol", "pass"); err != nil {
		t.Fatalf("register Carol: %v", err)
	}
	if _, err := svc.Register(context.Background(), "carol", "pass"); err != nil {
		t.Fatalf("register carol: %v", err)
	}
}

func TestAuthService_Register_StorageUniqueViolationIsDuplicate(t *testing.T) {
	f := newFixture()
	f.seedUser("dave", domain.RoleUser)

	tokens := NewTokenService("secret", time.Hour, nil)
	svc := NewAuthService(&blindUsers{f.store.Users()}, f.hasher, tokens, f.activity, discardLogger)

	if _, err := svc.Register(context.Background(), "dave", "pass"); err != domain.ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername from storage constraint, got %v", err)
	}
}

func TestAuthService_Register_LookupFaultIsNotDuplicate(t *testing.T) {
	f := newFixture()
	fault := fmt.Errorf("find user: %w: %w", domain.ErrStorageFault, errors.New("i/o timeout"))

	tokens := NewTokenService("secret", time.Hour, nil)
	svc := NewAuthService(&faultyUsers{UserRepository: f.store.Users(), findErr: fault}, f.hasher, tokens, f.activity, discardLogger)

	_, err := svc.Register(context.Background(), "erin", "pass")
	if !errors.Is(err, domain.ErrStorageFault) {
		t.Fatalf("expected storage fault, got %v", err)
	}
	if errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("storage fault must not be reported as duplicate")
	}
	if f.hasher.hashCalls() != 0 {
		t.Fatalf("must not hash after a failed lookup")
	}
}

func TestAuthService_Register_ConcurrentSameUsername(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	const callers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Register(context.Background(), "frank", "pass")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateUsername):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 || duplicates != callers-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", callers-1, successes, duplicates)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	if _, err := svc.Register(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if session.User == nil || session.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", session.User)
	}

	username, ok, err := svc.tokens.Authenticate(context.Background(), session.Token)
	if err != nil || !ok || username != "carol" {
		t.Fatalf("token did not authenticate: %q %v %v", username, ok, err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	_, _ = svc.Register(context.Background(), "dave", "goodpass")
	if _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	f := newFixture()
	svc, _ := newAuthSvc(f)

	if _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	f := newFixture()
	svc, rev := newAuthSvc(f)

	_, _ = svc.Register(context.Background(), "gina", "pass")
	session, err := svc.Login(context.Background(), "gina", "pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(rev.revoked) != 1 {
		t.Fatalf("expected 1 revoked token, got %d", len(rev.revoked))
	}
	if _, ok, _ := svc.tokens.Authenticate(context.Background(), session.Token); ok {
		t.Fatalf("revoked token must not authenticate")
	}
}

func TestAuthService_Logout_WithoutTokenIsNoop(t *testing.T) {
	f := newFixture()
	svc, rev := newAuthSvc(f)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("logout with garbage token: %v", err)
	}
	if len(rev.revoked) != 0 {
		t.Fatalf("nothing should be revoked")
	}
}
