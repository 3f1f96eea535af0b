package service

import (
	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

// authorize checks a workflow prerequisite against the explicitly passed
// principal.
func authorize(p domain.Principal, c domain.Capability) error {
	if !p.Authenticated {
		return domain.ErrAuthenticationRequired
	}
	if !p.Role.Can(c) {
		return domain.ErrAccessDenied
	}
	return nil
}

func record(r ports.ActivityRecorder, e domain.ActivityEntry) {
	if r == nil {
		return
	}
	r.Record(e)
}
