package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

// Authenticate turns the bearer token into a domain.Principal and injects it
// into the context. A missing, malformed, expired or revoked token yields the
// anonymous principal; whether that is acceptable is the access policy's
// decision. A token naming a user that no longer exists is also treated as
// anonymous. Storage failures abort the request.
func Authenticate(sessions ports.SessionAuthenticator, identities ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetPrincipal(c, domain.Anonymous)

			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return next(c)
			}
			c.Set(tokenKey, token)

			ctx := c.Request().Context()
			username, ok, err := sessions.Authenticate(ctx, token)
			if err != nil {
				return err
			}
			if !ok {
				return next(c)
			}

			principal, err := identities.Resolve(ctx, username)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownPrincipal) {
					log.Warn().Str("username", username).Msg("session refers to an unknown user")
					return next(c)
				}
				return err
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
