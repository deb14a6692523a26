package driven

import (
	"context"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
)

// ProfileStore defines the driven port for per-user portfolio configuration.
// Get returns nil, nil when the user has no stored profile.
type ProfileStore interface {
	Get(ctx context.Context, username string) (*model.Profile, error)
	Set(ctx context.Context, username string, profile model.Profile) error
}
