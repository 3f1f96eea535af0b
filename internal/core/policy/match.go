package policy

import (
	"path"
	"strings"
)

// matchPath reports whether urlPath matches pattern. Matching is per path
// segment: "*" matches exactly one segment and "**", allowed only as the final
// segment, matches zero or more segments. urlPath must already be normalized.
func matchPath(pattern, urlPath string) bool {
	if pattern == "/**" {
		return true
	}

	if !strings.Contains(pattern, "**") {
		return matchGlob(pattern, urlPath)
	}

	if !strings.HasSuffix(pattern, "/**") {
		// Interior ** is not supported; refuse rather than guess.
		return false
	}

	prefix := strings.TrimSuffix(pattern, "/**")
	// ** matches zero segments: the whole path is the prefix.
	if matchGlob(prefix, urlPath) {
		return true
	}
	// ** matches one or more segments after the prefix.
	return hasMatchingPrefix(prefix, urlPath)
}

// hasMatchingPrefix reports whether some leading run of whole segments of
// urlPath matches the glob prefix.
func hasMatchingPrefix(prefix, urlPath string) bool {
	for i := 1; i < len(urlPath); i++ {
		if urlPath[i] != '/' {
			continue
		}
		if matchGlob(prefix, urlPath[:i]) {
			return true
		}
	}
	return false
}

func matchGlob(pattern, name string) bool {
	matched, err := path.Match(pattern, name)
	if err != nil {
		// Malformed pattern: deny.
		return false
	}
	return matched
}

// normalizePath cleans a request path so that "/admin/", "/admin//x" and
// "/posts/../admin" are matched the way the router will see them.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
