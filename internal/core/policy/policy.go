// Package policy implements the request-level access control table.
//
// A Policy is an ordered list of rules. Each rule pairs a set of HTTP methods
// and path patterns with an access requirement. Evaluation walks the rules in
// order and the first rule whose method and path both match decides the
// outcome; later rules are never consulted. The table is therefore written
// most-specific first, ending with a catch-all.
//
// Evaluation is a pure function of (method, path, principal). It reads no
// ambient state and touches no storage, so a single Policy may be shared by
// any number of goroutines.
package policy

import (
	"net/http"
	"strings"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// Outcome is the result of evaluating a request.
type Outcome int

const (
	// Allow means the request may proceed to its handler.
	Allow Outcome = iota

	// DenyAuthenticationRequired means the matching rule needs a session
	// and the principal has none. Callers send the client to log in.
	DenyAuthenticationRequired

	// DenyAccessDenied means the principal is authenticated but its role
	// is not in the rule's required set.
	DenyAccessDenied
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case DenyAuthenticationRequired:
		return "authentication_required"
	case DenyAccessDenied:
		return "access_denied"
	default:
		return "unknown"
	}
}

// Err returns nil for Allow and the corresponding domain error otherwise.
func (o Outcome) Err() error {
	switch o {
	case Allow:
		return nil
	case DenyAuthenticationRequired:
		return domain.ErrAuthenticationRequired
	default:
		return domain.ErrAccessDenied
	}
}

// Access is the requirement a rule places on the principal.
type Access struct {
	public bool
	roles  []domain.Role
}

// Public admits every principal, authenticated or not.
func Public() Access { return Access{public: true} }

// Authenticated admits any authenticated principal.
func Authenticated() Access { return Access{} }

// RequireRoles admits authenticated principals holding one of roles.
func RequireRoles(roles ...domain.Role) Access {
	return Access{roles: append([]domain.Role(nil), roles...)}
}

func (a Access) decide(p domain.Principal) Outcome {
	if a.public {
		return Allow
	}
	if !p.Authenticated {
		return DenyAuthenticationRequired
	}
	if len(a.roles) == 0 || p.HasRole(a.roles...) {
		return Allow
	}
	return DenyAccessDenied
}

// Rule maps (method, path pattern) to an access requirement.
type Rule struct {
	// Name identifies the rule in logs and metrics.
	Name string
	// Methods restricts the rule to these HTTP methods. Empty means any.
	Methods []string
	// Patterns are matched against the cleaned request path.
	Patterns []string
	Access   Access
}

func (r Rule) matches(method, urlPath string) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if m == method {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, p := range r.Patterns {
		if matchPath(p, urlPath) {
			return true
		}
	}
	return false
}

// Decision is the outcome of Evaluate together with the rule that produced it.
type Decision struct {
	Outcome Outcome
	Rule    string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Err returns nil when allowed and the denial's domain error otherwise.
func (d Decision) Err() error { return d.Outcome.Err() }

// CatchAllRule is the name reported when no table entry matched.
const CatchAllRule = "catch-all"

// Policy is an immutable ordered rule table.
type Policy struct {
	rules []Rule
}

// New builds a policy from rules in evaluation order.
func New(rules ...Rule) *Policy {
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		r.Methods = upperAll(r.Methods)
		r.Patterns = append([]string(nil), r.Patterns...)
		cp[i] = r
	}
	return &Policy{rules: cp}
}

// Default returns the platform's access table.
func Default() *Policy {
	return New(DefaultRules()...)
}

// DefaultRules is the platform's access table, most specific first.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "admin",
			Patterns: []string{"/admin/**"},
			Access:   RequireRoles(domain.RoleAdmin),
		},
		{
			Name:     "comment-submission",
			Methods:  []string{http.MethodPost},
			Patterns: []string{"/posts/*/comments"},
			Access:   RequireRoles(domain.RoleUser, domain.RoleAdmin),
		},
		{
			Name:     "public-read",
			Methods:  []string{http.MethodGet},
			Patterns: []string{"/", "/posts", "/posts/**"},
			Access:   Public(),
		},
		{
			Name: "public-pages",
			Patterns: []string{
				"/register", "/login", "/logout",
				"/css/**", "/js/**",
				"/health/**", "/swagger/**",
			},
			Access: Public(),
		},
		{
			Name:     CatchAllRule,
			Patterns: []string{"/**"},
			Access:   Authenticated(),
		},
	}
}

// Evaluate decides whether principal may perform method on urlPath. Rules are
// checked in order until the first match. A request no rule matches is
// treated as the catch-all: authentication required.
func (p *Policy) Evaluate(method, urlPath string, principal domain.Principal) Decision {
	method = strings.ToUpper(method)
	urlPath = normalizePath(urlPath)

	for _, r := range p.rules {
		if r.matches(method, urlPath) {
			return Decision{Outcome: r.Access.decide(principal), Rule: r.Name}
		}
	}
	return Decision{Outcome: Authenticated().decide(principal), Rule: CatchAllRule}
}

func upperAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}
