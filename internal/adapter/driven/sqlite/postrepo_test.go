package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePost(slug, title string, published time.Time) model.Post {
	return model.Post{
		Slug:        slug,
		Title:       title,
		Summary:     "about " + title,
		ContentMdx:  "# " + title + "\n\nbody text",
		Tags:        []string{"go"},
		PublishedAt: published,
	}
}

func TestPostRepo_ReplaceAll_InsertsAndLists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	posts := []model.Post{
		makePost("newer-post", "Newer Post", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		makePost("older-post", "Older Post", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, repo.ReplaceAll(ctx, "alice", posts))

	got, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "newer-post", got[0].Slug)
	assert.Equal(t, "older-post", got[1].Slug)
	assert.Equal(t, "Newer Post", got[0].Title)
	assert.Equal(t, []string{"go"}, got[0].Tags)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got[0].PublishedAt)
}

func TestPostRepo_ReplaceAll_DeletesStale(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.ReplaceAll(ctx, "alice", []model.Post{
		makePost("keep", "Keep", published),
		makePost("drop", "Drop", published),
	}))

	require.NoError(t, repo.ReplaceAll(ctx, "alice", []model.Post{
		makePost("keep", "Keep", published),
	}))

	got, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Slug)
}

func TestPostRepo_ReplaceAll_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()

	posts := []model.Post{
		makePost("a-post", "A Post", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, repo.ReplaceAll(ctx, "alice", posts))
	require.NoError(t, repo.ReplaceAll(ctx, "alice", posts))

	got, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A Post", got[0].Title)
	assert.Equal(t, "# A Post\n\nbody text", got[0].ContentMdx)
}

func TestPostRepo_ListByUser_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)

	got, err := repo.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}
