package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meetgrid/booking-api/internal/models"
)

// AvailabilityRuleRepository persists weekly availability rules and their
// breaks.
type AvailabilityRuleRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRuleRepository creates a new rule repository.
func NewAvailabilityRuleRepository(db *sqlx.DB) *AvailabilityRuleRepository {
	return &AvailabilityRuleRepository{db: db}
}

type weeklyRuleRow struct {
	ProfileID   string  `db:"profile_id"`
	Weekday     int     `db:"weekday"`
	IsAvailable bool    `db:"is_available"`
	StartTime   *string `db:"start_time"`
	EndTime     *string `db:"end_time"`
}

type breakRow struct {
	ID        string `db:"id"`
	ProfileID string `db:"profile_id"`
	Weekday   int    `db:"weekday"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	Label     string `db:"label"`
	SortOrder int    `db:"sort_order"`
}

// GetWeekSchedule loads the owner's full weekly schedule with breaks
// attached, backfilling missing weekdays as unavailable so the engine always
// receives one rule per day.
func (r *AvailabilityRuleRepository) GetWeekSchedule(ctx context.Context, profileID string) (models.WeekSchedule, error) {
	var ruleRows []weeklyRuleRow
	err := r.db.SelectContext(ctx, &ruleRows,
		"SELECT profile_id, weekday, is_available, start_time, end_time FROM weekly_availability WHERE profile_id = $1 ORDER BY weekday",
		profileID)
	if err != nil {
		return nil, fmt.Errorf("list weekly availability: %w", err)
	}

	var brRows []breakRow
	err = r.db.SelectContext(ctx, &brRows,
		"SELECT id, profile_id, weekday, start_time, end_time, label, sort_order FROM availability_breaks WHERE profile_id = $1 ORDER BY weekday, sort_order",
		profileID)
	if err != nil {
		return nil, fmt.Errorf("list availability breaks: %w", err)
	}

	breaksByDay := make(map[int][]models.Break, len(brRows))
	for _, row := range brRows {
		start, err := models.ParseTimeOfDay(row.StartTime)
		if err != nil {
			return nil, fmt.Errorf("break %s: %w", row.ID, err)
		}
		end, err := models.ParseTimeOfDay(row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("break %s: %w", row.ID, err)
		}
		breaksByDay[row.Weekday] = append(breaksByDay[row.Weekday], models.Break{
			ID:        row.ID,
			Start:     start,
			End:       end,
			Label:     row.Label,
			SortOrder: row.SortOrder,
		})
	}

	schedule := make(models.WeekSchedule, 7)
	for _, row := range ruleRows {
		rule := models.WeeklyRule{Weekday: row.Weekday, Available: row.IsAvailable}
		if row.IsAvailable && row.StartTime != nil && row.EndTime != nil {
			start, err := models.ParseTimeOfDay(*row.StartTime)
			if err != nil {
				return nil, fmt.Errorf("rule weekday %d: %w", row.Weekday, err)
			}
			end, err := models.ParseTimeOfDay(*row.EndTime)
			if err != nil {
				return nil, fmt.Errorf("rule weekday %d: %w", row.Weekday, err)
			}
			rule.Start = &start
			rule.End = &end
			rule.Breaks = breaksByDay[row.Weekday]
		}
		schedule[row.Weekday] = rule
	}

	return schedule.Materialize(), nil
}

// UpsertRule replaces the rule and breaks for one weekday atomically.
func (r *AvailabilityRuleRepository) UpsertRule(ctx context.Context, profileID string, rule models.WeeklyRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert rule: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var start, end *string
	if rule.Available && rule.Start != nil && rule.End != nil {
		s := rule.Start.String()
		e := rule.End.String()
		start, end = &s, &e
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO weekly_availability (profile_id, weekday, is_available, start_time, end_time, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (profile_id, weekday)
		 DO UPDATE SET is_available = $3, start_time = $4, end_time = $5, updated_at = $6`,
		profileID, rule.Weekday, rule.Available, start, end, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert weekly availability: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM availability_breaks WHERE profile_id = $1 AND weekday = $2",
		profileID, rule.Weekday)
	if err != nil {
		return fmt.Errorf("clear availability breaks: %w", err)
	}

	for i, b := range rule.Breaks {
		id := b.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO availability_breaks (id, profile_id, weekday, start_time, end_time, label, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, profileID, rule.Weekday, b.Start.String(), b.End.String(), b.Label, i)
		if err != nil {
			return fmt.Errorf("insert availability break: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert rule: %w", err)
	}
	return nil
}
