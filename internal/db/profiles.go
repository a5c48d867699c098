package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hireo/internal/types"
)

// CreateProfile stores a new profile and returns its record.
func (db *DB) CreateProfile(ctx context.Context, profile types.Profile) (*ProfileRecord, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	rec := ProfileRecord{ID: uuid.New(), Profile: profile}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, data) VALUES ($1, $2)
		 RETURNING created_at, updated_at`,
		rec.ID, data,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &rec, nil
}

// GetProfile retrieves a profile by id. It returns nil, nil when no profile exists.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileRecord, error) {
	var rec ProfileRecord
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, data, created_at, updated_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&rec.ID, &data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err := json.Unmarshal(data, &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", id, err)
	}
	return &rec, nil
}

// UpdateProfile replaces the content of a profile. It reports whether the
// profile existed.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, profile types.Profile) (bool, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return false, fmt.Errorf("failed to marshal profile: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE profiles SET data = $1, updated_at = NOW() WHERE id = $2`,
		data, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteProfile removes a profile and its documents.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
