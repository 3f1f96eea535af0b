package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-platform/internal/api/middleware"
	"github.com/quillpress/blog-platform/internal/core/domain"
)

var (
	alice = domain.Principal{Username: "alice", Role: domain.RoleUser, Authenticated: true}
	root  = domain.Principal{Username: "root", Role: domain.RoleAdmin, Authenticated: true}
)

// newContext builds a request context with the validator installed and the
// given principal already resolved.
func newContext(method, target, body string, p domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetPrincipal(c, p)
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}
