package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/policy"
)

func runAuthorize(method, target string, p domain.Principal) (bool, error) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetPrincipal(c, p)

	called := false
	err := Authorize(policy.Default(), zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestAuthorize_Allows(t *testing.T) {
	admin := domain.Principal{Username: "root", Role: domain.RoleAdmin, Authenticated: true}
	called, err := runAuthorize(http.MethodGet, "/admin/dashboard", admin)
	if err != nil || !called {
		t.Fatalf("admin should reach handler: called=%v err=%v", called, err)
	}

	called, err = runAuthorize(http.MethodGet, "/posts/1", domain.Anonymous)
	if err != nil || !called {
		t.Fatalf("anonymous read should reach handler: called=%v err=%v", called, err)
	}
}

func TestAuthorize_ForbidsInsufficientRole(t *testing.T) {
	user := domain.Principal{Username: "alice", Role: domain.RoleUser, Authenticated: true}
	called, err := runAuthorize(http.MethodGet, "/admin/users", user)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestAuthorize_RequiresAuthentication(t *testing.T) {
	called, err := runAuthorize(http.MethodPost, "/posts/1/comments", domain.Anonymous)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestAuthorize_EncodedSegmentsCannotLeaveAdminTree(t *testing.T) {
	user := domain.Principal{Username: "alice", Role: domain.RoleUser, Authenticated: true}
	cases := []struct {
		method, target string
	}{
		{http.MethodGet, "/admin/comments/..%2f..%2fposts"},
		{http.MethodDelete, "/admin/comments/%2e%2e%2f%2e%2e%2flogin"},
		{http.MethodDelete, "/admin/comments/..%2F..%2Fregister"},
	}
	for _, tc := range cases {
		called, err := runAuthorize(tc.method, tc.target, domain.Anonymous)
		if called || !errors.Is(err, domain.ErrAuthenticationRequired) {
			t.Fatalf("%s %s anonymous: expected ErrAuthenticationRequired, called=%v err=%v", tc.method, tc.target, called, err)
		}
		called, err = runAuthorize(tc.method, tc.target, user)
		if called || !errors.Is(err, domain.ErrAccessDenied) {
			t.Fatalf("%s %s user: expected ErrAccessDenied, called=%v err=%v", tc.method, tc.target, called, err)
		}
	}
}

func TestAuthorize_EncodedSegmentsCannotReachAdminTree(t *testing.T) {
	user := domain.Principal{Username: "alice", Role: domain.RoleUser, Authenticated: true}
	called, err := runAuthorize(http.MethodGet, "/posts/..%2f..%2fadmin/users", user)
	if called || !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, called=%v err=%v", called, err)
	}
}

func TestPrincipalFrom_DefaultsToAnonymous(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if p := PrincipalFrom(c); p.Authenticated {
		t.Fatalf("expected anonymous, got %+v", p)
	}
}
