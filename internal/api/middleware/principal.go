package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

const (
	principalKey = "principal"
	tokenKey     = "session_token"
)

// SetPrincipal stores the request's principal in the echo context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal placed by Authenticate, or the
// anonymous principal when none was set.
func PrincipalFrom(c echo.Context) domain.Principal {
	if p, ok := c.Get(principalKey).(domain.Principal); ok {
		return p
	}
	return domain.Anonymous
}

// TokenFrom returns the bearer token presented with the request, if any.
func TokenFrom(c echo.Context) string {
	tok, _ := c.Get(tokenKey).(string)
	return tok
}
