package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

func TestTokenService_IssueAndAuthenticate(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, nil)

	token, expiresAt, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiry should be in the future, got %v", expiresAt)
	}

	username, ok, err := svc.Authenticate(context.Background(), token)
	if err != nil || !ok {
		t.Fatalf("expected valid token, got ok=%v err=%v", ok, err)
	}
	if username != "alice" {
		t.Fatalf("unexpected subject %q", username)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService("secret", 0, nil)
	if svc.ttl != defaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", svc.ttl)
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, nil)
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, _, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, ok, err := svc.Authenticate(context.Background(), token); ok || err != nil {
		t.Fatalf("expired token must be rejected quietly, got ok=%v err=%v", ok, err)
	}
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenService("other-secret", time.Hour, nil)
	token, _, _ := issuer.Issue("mallory")

	svc := NewTokenService("secret", time.Hour, nil)
	if _, ok, _ := svc.Authenticate(context.Background(), token); ok {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ID:        "id-1",
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	svc := NewTokenService("secret", time.Hour, nil)
	if _, ok, _ := svc.Authenticate(context.Background(), token); ok {
		t.Fatalf("HS384 token must be rejected")
	}
}

func TestTokenService_RejectsMissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ID:        "id-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	svc := NewTokenService("secret", time.Hour, nil)
	if _, ok, _ := svc.Authenticate(context.Background(), token); ok {
		t.Fatalf("token without subject must be rejected")
	}
}

func TestTokenService_EmptyAndGarbage(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, nil)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, ok, err := svc.Authenticate(context.Background(), tok); ok || err != nil {
			t.Fatalf("token %q: expected rejection without error, got ok=%v err=%v", tok, ok, err)
		}
	}
}

func TestTokenService_RevokeUsesRemainingLifetime(t *testing.T) {
	rev := newStubRevocations()
	svc := NewTokenService("secret", time.Hour, rev)
	now := time.Now()
	svc.now = func() time.Time { return now }

	token, _, _ := svc.Issue("alice")
	svc.now = func() time.Time { return now.Add(15 * time.Minute) }

	if err := svc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if len(rev.revoked) != 1 {
		t.Fatalf("expected one revocation, got %d", len(rev.revoked))
	}
	for _, ttl := range rev.revoked {
		if ttl > 45*time.Minute || ttl < 44*time.Minute {
			t.Fatalf("unexpected revocation ttl %v", ttl)
		}
	}
}

func TestTokenService_RevocationCheckFailureIsReported(t *testing.T) {
	rev := newStubRevocations()
	rev.checkErr = errors.New("redis: connection refused")
	svc := NewTokenService("secret", time.Hour, rev)

	token, _, _ := svc.Issue("alice")
	_, ok, err := svc.Authenticate(context.Background(), token)
	if ok {
		t.Fatalf("must not authenticate when revocation state is unknown")
	}
	if !errors.Is(err, domain.ErrStorageFault) {
		t.Fatalf("expected storage fault, got %v", err)
	}
}

func TestTokenService_RevokeFailureIsStorageFault(t *testing.T) {
	rev := newStubRevocations()
	rev.revokeErr = errors.New("redis: i/o timeout")
	svc := NewTokenService("secret", time.Hour, rev)

	token, _, _ := svc.Issue("alice")
	err := svc.Revoke(context.Background(), token)
	if !errors.Is(err, domain.ErrStorageFault) {
		t.Fatalf("expected storage fault, got %v", err)
	}
}
