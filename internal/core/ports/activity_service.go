package ports

import "github.com/quillpress/blog-platform/internal/core/domain"

// ActivityRecorder accepts audit entries for asynchronous persistence.
// Record never blocks the caller on storage and never fails the workflow
// that produced the entry.
type ActivityRecorder interface {
	Record(entry domain.ActivityEntry)
}
