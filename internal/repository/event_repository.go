package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meetgrid/booking-api/internal/models"
)

// EventRepository persists busy events pulled from the owner's calendars.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = "id, profile_id, source, title, starts_at, ends_at, all_day, all_day_date, created_at"

// selectColumns coalesces nullable text columns so they scan into plain strings.
const selectColumns = "id, profile_id, source, COALESCE(title, '') AS title, starts_at, ends_at, all_day, COALESCE(all_day_date, '') AS all_day_date, created_at"

// ListBetween returns the profile's busy events overlapping [from, to),
// including all-day events whose calendar date falls inside the range.
func (r *EventRepository) ListBetween(ctx context.Context, profileID string, from, to time.Time) ([]models.BusyEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM busy_events
		WHERE profile_id = $1
		  AND ((NOT all_day AND starts_at < $3 AND ends_at > $2)
		    OR (all_day AND all_day_date >= $4 AND all_day_date <= $5))
		ORDER BY starts_at`, selectColumns)

	var events []models.BusyEvent
	err := r.db.SelectContext(ctx, &events, query,
		profileID, from, to,
		from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list busy events: %w", err)
	}
	return events, nil
}

// Create stores a manually entered busy block.
func (r *EventRepository) Create(ctx context.Context, event *models.BusyEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO busy_events (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)", eventColumns),
		event.ID, event.ProfileID, event.Source, event.Title,
		event.StartsAt, event.EndsAt, event.AllDay, nullableString(event.AllDayDate), event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create busy event: %w", err)
	}
	return nil
}

// ReplaceForSource swaps the profile's events from one calendar source for a
// freshly synced set. Sync workers call this after each pull so stale remote
// events disappear atomically.
func (r *EventRepository) ReplaceForSource(ctx context.Context, profileID, source string, events []models.BusyEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace events: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		"DELETE FROM busy_events WHERE profile_id = $1 AND source = $2",
		profileID, source)
	if err != nil {
		return fmt.Errorf("clear busy events: %w", err)
	}

	now := time.Now().UTC()
	for _, event := range events {
		id := event.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO busy_events (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)", eventColumns),
			id, profileID, source, event.Title,
			event.StartsAt, event.EndsAt, event.AllDay, nullableString(event.AllDayDate), now)
		if err != nil {
			return fmt.Errorf("insert busy event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace events: %w", err)
	}
	return nil
}

// Delete removes a busy event owned by the profile.
func (r *EventRepository) Delete(ctx context.Context, profileID, eventID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM busy_events WHERE id = $1 AND profile_id = $2",
		eventID, profileID)
	if err != nil {
		return fmt.Errorf("delete busy event: %w", err)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
