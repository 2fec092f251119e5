package models

import "time"

// BusyEvent is an already-booked period pulled from one of the owner's
// calendars. Either StartsAt/EndsAt carry zone-aware instants, or AllDay is
// set and AllDayDate names a plain calendar date that must be anchored to a
// reference timezone before comparison.
type BusyEvent struct {
	ID         string    `db:"id" json:"id"`
	ProfileID  string    `db:"profile_id" json:"profile_id"`
	Source     string    `db:"source" json:"source"`
	Title      string    `db:"title" json:"title,omitempty"`
	StartsAt   time.Time `db:"starts_at" json:"starts_at"`
	EndsAt     time.Time `db:"ends_at" json:"ends_at"`
	AllDay     bool      `db:"all_day" json:"all_day"`
	AllDayDate string    `db:"all_day_date" json:"all_day_date,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// EventFilter describes query params for listing busy events.
type EventFilter struct {
	ProfileID string
	Source    string
	From      *time.Time
	To        *time.Time
}
