package domain

import "errors"

// Business-rule failures. These are recovered at the HTTP boundary and
// rendered as user-facing outcomes.
var (
	ErrDuplicateUsername      = errors.New("username already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPostNotFound           = errors.New("post not found")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrAccessDenied           = errors.New("access denied")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidInput           = errors.New("invalid input")
)

// ErrUnknownPrincipal is returned by the identity resolver when no user has
// the requested username.
var ErrUnknownPrincipal = errors.New("unknown principal")

// ErrUserNotFound is returned by repositories on a user lookup miss. Inside a
// content workflow it is an integrity fault: the session refers to a user
// that no longer exists.
var ErrUserNotFound = errors.New("user not found")

// ErrStorageFault marks failures of the persistence collaborator. Adapters
// wrap driver errors with it; it is never translated into a business error.
var ErrStorageFault = errors.New("storage fault")

// IsIntegrityFault reports whether err signals a broken relationship between
// stored entities rather than a user mistake.
func IsIntegrityFault(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// ErrAuthorNotFound is returned when a client asks for the posts of a user
// that does not exist. Unlike ErrUserNotFound it is a plain lookup miss.
var ErrAuthorNotFound = errors.New("author not found")
