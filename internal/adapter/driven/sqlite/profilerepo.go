package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/gitfolio/internal/bytecap"
	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/ericfisherdev/gitfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProfileStore = (*ProfileRepo)(nil)

// ProfileRepo is the SQLite implementation of the ProfileStore port interface.
// The profile is stored as one JSON blob per user, serialized under the 4 KiB
// record budget with the bio individually capped.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepo backed by the given DB.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Get retrieves the user's profile. Returns nil, nil when no profile is stored.
func (r *ProfileRepo) Get(ctx context.Context, username string) (*model.Profile, error) {
	const query = `SELECT config_json FROM profiles WHERE username = ?`

	var configJSON string
	err := r.db.Reader.QueryRowContext(ctx, query, username).Scan(&configJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile for %s: %w", username, err)
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(configJSON), &profile); err != nil {
		return nil, fmt.Errorf("decode profile for %s: %w", username, err)
	}

	return &profile, nil
}

// Set stores the user's profile, enforcing the record byte budget at write time.
func (r *ProfileRepo) Set(ctx context.Context, username string, profile model.Profile) error {
	configJSON, err := bytecap.SerializeWithCap(
		profile,
		map[string]int{"bio": model.ProfileBioCapBytes},
		model.ProfileCapBytes,
	)
	if err != nil {
		return fmt.Errorf("encode profile for %s: %w", username, err)
	}

	const upsert = `
		INSERT INTO profiles (username, config_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`

	updatedAt := time.Now().UTC().Format(time.RFC3339)

	if _, err := r.db.Writer.ExecContext(ctx, upsert, username, configJSON, updatedAt); err != nil {
		return fmt.Errorf("set profile for %s: %w", username, err)
	}

	return nil
}
