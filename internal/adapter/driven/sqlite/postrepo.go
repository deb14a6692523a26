package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/ericfisherdev/gitfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PostStore = (*PostRepo)(nil)

// PostRepo is the SQLite implementation of the PostStore port interface.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new PostRepo backed by the given DB.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// ReplaceAll reconciles the user's stored posts against the target list by
// slug, mirroring ProjectRepo.ReplaceAll.
func (r *PostRepo) ReplaceAll(ctx context.Context, username string, posts []model.Post) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reconcile posts: %w", err)
	}
	defer tx.Rollback()

	currentKeys, err := queryKeys(ctx, tx, `SELECT slug FROM posts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("list current posts for %s: %w", username, err)
	}

	newKeys := make(map[string]struct{}, len(posts))
	for i := range posts {
		newKeys[posts[i].Slug] = struct{}{}
	}

	for _, key := range currentKeys {
		if _, keep := newKeys[key]; keep {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM posts WHERE username = ? AND slug = ?`, username, key); err != nil {
			return fmt.Errorf("delete stale post %s: %w", key, err)
		}
	}

	const upsert = `
		INSERT INTO posts (
			username, slug, title, summary, content_mdx, tags, published_at, position, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (username, slug) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			content_mdx = excluded.content_mdx,
			tags = excluded.tags,
			published_at = excluded.published_at,
			position = excluded.position,
			synced_at = excluded.synced_at`

	syncedAt := time.Now().UTC().Format(time.RFC3339)

	for i := range posts {
		p := &posts[i]

		tags, err := marshalStrings(p.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", p.Slug, err)
		}

		if _, err := tx.ExecContext(ctx, upsert,
			username, p.Slug, p.Title, p.Summary, p.ContentMdx, tags,
			p.PublishedAt.UTC().Format(time.RFC3339), i, syncedAt,
		); err != nil {
			return fmt.Errorf("upsert post %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reconcile posts for %s: %w", username, err)
	}

	return nil
}

// ListByUser returns the user's posts in their persisted order (publishedAt
// descending as written by the last sync run).
func (r *PostRepo) ListByUser(ctx context.Context, username string) ([]model.Post, error) {
	const query = `
		SELECT id, username, slug, title, summary, content_mdx, tags, published_at
		FROM posts
		WHERE username = ?
		ORDER BY position`

	rows, err := r.db.Reader.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list posts for %s: %w", username, err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

func scanPost(s scanner) (*model.Post, error) {
	var p model.Post
	var tags string
	var publishedAt string

	err := s.Scan(&p.ID, &p.Username, &p.Slug, &p.Title, &p.Summary,
		&p.ContentMdx, &tags, &publishedAt)
	if err != nil {
		return nil, err
	}

	p.Tags, err = unmarshalStrings(tags)
	if err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}

	p.PublishedAt, err = parseTime(publishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse published_at: %w", err)
	}

	return &p, nil
}
