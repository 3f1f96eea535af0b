package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/core/policy"
	"github.com/quillpress/blog-platform/internal/pkg/metrics"
)

// Authorize evaluates the access policy against the principal set by
// Authenticate. Denials are returned as domain errors so the central error
// handler can tell a missing session from an insufficient role.
func Authorize(p *policy.Policy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			principal := PrincipalFrom(c)

			// The router matches on the escaped path when the request carries
			// one, so "%2f" and "%2e" never act as separators or dot segments
			// there. Both forms must be allowed.
			routed := echo.GetPath(req)
			decision := p.Evaluate(req.Method, routed, principal)
			if decision.Allowed() && routed != req.URL.Path {
				decision = p.Evaluate(req.Method, req.URL.Path, principal)
			}
			metrics.PolicyDecisionsTotal.WithLabelValues(decision.Rule, decision.Outcome.String()).Inc()

			if !decision.Allowed() {
				log.Debug().
					Str("method", req.Method).
					Str("path", routed).
					Str("rule", decision.Rule).
					Str("outcome", decision.Outcome.String()).
					Str("username", principal.Username).
					Msg("request denied")
				return decision.Err()
			}
			return next(c)
		}
	}
}
