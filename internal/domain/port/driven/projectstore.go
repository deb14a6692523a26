package driven

import (
	"context"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
)

// ProjectStore defines the driven port for project persistence.
// ReplaceAll reconciles the stored collection against the target: projects no
// longer present are deleted, the rest are upserted by fullName, all within a
// single transaction. Calling ReplaceAll twice with the same target leaves
// stored state unchanged on the second call.
type ProjectStore interface {
	ReplaceAll(ctx context.Context, username string, projects []model.Project) error
	ListByUser(ctx context.Context, username string) ([]model.Project, error)
}
