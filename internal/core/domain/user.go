package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the single coarse permission label granted to a user.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

// authorityPrefix is prepended to the upper-cased role name to form the
// granted authority string, e.g. "ROLE_ADMIN".
const authorityPrefix = "ROLE_"

// Capability is a single action a role may be granted.
type Capability uint8

const (
	CapReadContent Capability = 1 << iota
	CapAuthorPost
	CapComment
	CapAdminister
)

var roleCapabilities = [...]Capability{
	RoleUnknown: 0,
	RoleUser:    CapReadContent | CapAuthorPost | CapComment,
	RoleAdmin:   CapReadContent | CapAuthorPost | CapComment | CapAdminister,
}

var roleNames = [...]string{
	RoleUnknown: "",
	RoleUser:    "user",
	RoleAdmin:   "admin",
}

// ParseRole maps a stored role name to a Role. Matching is case-insensitive
// so rows written as "USER" or "user" both resolve.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return ""
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authority returns the granted authority string for the role.
func (r Role) Authority() string {
	if !r.Valid() {
		return ""
	}
	return authorityPrefix + strings.ToUpper(r.String())
}

// Can reports whether the role carries the given capability.
func (r Role) Can(c Capability) bool {
	if int(r) >= len(roleCapabilities) {
		return false
	}
	return roleCapabilities[r]&c == c
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MaxPasswordBytes is the longest password, in bytes, that can be hashed.
const MaxPasswordBytes = 72

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the identity acting on a single request. It is produced by the
// identity resolver per request and never persisted.
type Principal struct {
	Username      string `json:"username,omitempty"`
	Role          Role   `json:"-"`
	Authenticated bool   `json:"authenticated"`
}

// Anonymous is the principal of a request without a session.
var Anonymous = Principal{}

// NewPrincipal builds an authenticated principal for the given user.
func NewPrincipal(u *User) Principal {
	return Principal{Username: u.Username, Role: u.Role, Authenticated: true}
}

// Authority returns the principal's single granted authority, or "" when
// unauthenticated.
func (p Principal) Authority() string {
	if !p.Authenticated {
		return ""
	}
	return p.Role.Authority()
}

// HasRole reports whether the principal is authenticated with one of roles.
func (p Principal) HasRole(roles ...Role) bool {
	if !p.Authenticated {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
