package driven

import (
	"context"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
)

// PostStore defines the driven port for blog post persistence. Semantics
// mirror ProjectStore.ReplaceAll with slug as the natural key.
type PostStore interface {
	ReplaceAll(ctx context.Context, username string, posts []model.Post) error
	ListByUser(ctx context.Context, username string) ([]model.Post, error)
}
