package driven

import (
	"context"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
)

// SourceClient defines the driven port for the upstream code-hosting source.
// Methods that look up a single resource return zero values with a nil error
// when the resource does not exist; only transport or API failures produce
// errors.
type SourceClient interface {
	// ListRepositories returns all of the user's repositories, including
	// private, forked, and archived entries. Filtering is the caller's job.
	ListRepositories(ctx context.Context, username string) ([]model.Repository, error)

	// GetReadme returns the raw markdown of owner/repo's README, or empty
	// string when the repository has none.
	GetReadme(ctx context.Context, owner, repo string) (string, error)

	// ListBlogFiles returns the markdown filenames at the root of the user's
	// blog repository, or an empty slice when the repository does not exist.
	ListBlogFiles(ctx context.Context, username string) ([]string, error)

	// GetBlogFile returns the raw text of one blog file, or empty string when
	// the file does not exist.
	GetBlogFile(ctx context.Context, username, filename string) (string, error)
}
