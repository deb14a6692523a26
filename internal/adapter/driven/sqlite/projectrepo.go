package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/ericfisherdev/gitfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProjectStore = (*ProjectRepo)(nil)

// ProjectRepo is the SQLite implementation of the ProjectStore port interface.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a new ProjectRepo backed by the given DB.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// ReplaceAll reconciles the user's stored projects against the target list:
// rows whose full_name is absent from projects are deleted, every entry in
// projects is upserted with its list position, all within one transaction.
// Re-running with an identical list leaves stored state unchanged.
func (r *ProjectRepo) ReplaceAll(ctx context.Context, username string, projects []model.Project) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reconcile projects: %w", err)
	}
	defer tx.Rollback()

	currentKeys, err := queryKeys(ctx, tx, `SELECT full_name FROM projects WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("list current projects for %s: %w", username, err)
	}

	newKeys := make(map[string]struct{}, len(projects))
	for i := range projects {
		newKeys[projects[i].FullName] = struct{}{}
	}

	for _, key := range currentKeys {
		if _, keep := newKeys[key]; keep {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM projects WHERE username = ? AND full_name = ?`, username, key); err != nil {
			return fmt.Errorf("delete stale project %s: %w", key, err)
		}
	}

	const upsert = `
		INSERT INTO projects (
			username, full_name, name, description_html, language, topics,
			stars, pushed_at, homepage_url, preview_url, summary, position, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (username, full_name) DO UPDATE SET
			name = excluded.name,
			description_html = excluded.description_html,
			language = excluded.language,
			topics = excluded.topics,
			stars = excluded.stars,
			pushed_at = excluded.pushed_at,
			homepage_url = excluded.homepage_url,
			preview_url = excluded.preview_url,
			summary = excluded.summary,
			position = excluded.position,
			synced_at = excluded.synced_at`

	syncedAt := time.Now().UTC().Format(time.RFC3339)

	for i := range projects {
		p := &projects[i]

		topics, err := marshalStrings(p.Topics)
		if err != nil {
			return fmt.Errorf("encode topics for %s: %w", p.FullName, err)
		}

		if _, err := tx.ExecContext(ctx, upsert,
			username, p.FullName, p.Name, p.DescriptionHTML, p.Language, topics,
			p.Stars, formatTime(p.PushedAt), p.HomepageURL, p.PreviewURL, p.Summary, i, syncedAt,
		); err != nil {
			return fmt.Errorf("upsert project %s: %w", p.FullName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reconcile projects for %s: %w", username, err)
	}

	return nil
}

// ListByUser returns the user's projects in their persisted order (the order
// the last sync run wrote them in: stars descending).
func (r *ProjectRepo) ListByUser(ctx context.Context, username string) ([]model.Project, error) {
	const query = `
		SELECT id, username, full_name, name, description_html, language, topics,
		       stars, pushed_at, homepage_url, preview_url, summary
		FROM projects
		WHERE username = ?
		ORDER BY position`

	rows, err := r.db.Reader.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list projects for %s: %w", username, err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	var topics string
	var pushedAt sql.NullString

	err := s.Scan(&p.ID, &p.Username, &p.FullName, &p.Name, &p.DescriptionHTML,
		&p.Language, &topics, &p.Stars, &pushedAt, &p.HomepageURL, &p.PreviewURL, &p.Summary)
	if err != nil {
		return nil, err
	}

	p.Topics, err = unmarshalStrings(topics)
	if err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	p.PushedAt, err = parseNullTime(pushedAt)
	if err != nil {
		return nil, fmt.Errorf("parse pushed_at: %w", err)
	}

	return &p, nil
}

// queryKeys returns a single string column for all matching rows.
func queryKeys(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
