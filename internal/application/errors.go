package application

import (
	"errors"
	"fmt"
	"time"
)

// Fatal sync failure kinds. Callers match with errors.Is; the wrapped detail
// is for logs only and must not be echoed to API clients.
var (
	// ErrUpstream indicates the repository or blog-file listing call failed.
	// Nothing was persisted.
	ErrUpstream = errors.New("upstream source failure")

	// ErrValidation indicates the assembled collection failed validation
	// after capping. The run aborted before any reconciliation.
	ErrValidation = errors.New("sync validation failed")

	// ErrPersistence indicates the reconciliation transaction failed. The
	// store guarantees no partial writes happened.
	ErrPersistence = errors.New("sync persistence failed")
)

// RateLimitedError is returned when a sync is triggered again before the
// rate-limit window has elapsed. No fetch was attempted.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("sync rate limited until %s", e.ResetAt.UTC().Format(time.RFC3339))
}
