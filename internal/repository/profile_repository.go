package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/meetgrid/booking-api/internal/models"
)

// ProfileRepository persists calendar-owner accounts.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = "id, email, password_hash, display_name, slug, timezone, active, last_login, created_at, updated_at"

// FindByID returns a profile by primary key.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1", profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail returns a profile by login email, case-insensitively.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE LOWER(email) = LOWER($1)", profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, email); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindBySlug returns a profile by its public booking-page slug.
func (r *ProfileRepository) FindBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	var profile models.Profile
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE slug = $1 AND active", profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, slug); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateLastLogin stamps the profile's most recent login.
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE profiles SET last_login = $2, updated_at = $2 WHERE id = $1", id, ts)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdateTimezone changes the zone the owner's business hours are entered in.
func (r *ProfileRepository) UpdateTimezone(ctx context.Context, id, timezone string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE profiles SET timezone = $2, updated_at = $3 WHERE id = $1", id, timezone, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}
	return nil
}
