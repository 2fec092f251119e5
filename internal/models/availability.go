package models

import (
	"fmt"
	"time"
)

// Weekday constants follow ISO-8601 numbering: Monday is 1, Sunday is 7.
const (
	WeekdayMonday = 1
	WeekdaySunday = 7
)

// TimeOfDay is a wall-clock time with no date or zone attached.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses a "HH:MM" clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns minutes elapsed since midnight.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t falls earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinuteOfDay() < other.MinuteOfDay()
}

// Break is a blocked period inside a day's business hours, entered
// independently of the day's current hours.
type Break struct {
	ID        string    `db:"id" json:"id,omitempty"`
	Start     TimeOfDay `json:"start"`
	End       TimeOfDay `json:"end"`
	Label     string    `json:"label,omitempty"`
	SortOrder int       `json:"sort_order"`
}

// WeeklyRule is the owner's recurring availability for one weekday.
// When Available is false, Start and End are nil and Breaks is empty.
type WeeklyRule struct {
	Weekday   int        `json:"weekday"`
	Available bool       `json:"available"`
	Start     *TimeOfDay `json:"start,omitempty"`
	End       *TimeOfDay `json:"end,omitempty"`
	Breaks    []Break    `json:"breaks,omitempty"`
}

// WeekSchedule holds exactly one rule per ISO weekday 1..7.
type WeekSchedule map[int]WeeklyRule

// ForWeekday returns the rule for the given ISO weekday. Missing days are
// reported as unavailable rather than as an error.
func (s WeekSchedule) ForWeekday(weekday int) (WeeklyRule, bool) {
	rule, ok := s[weekday]
	if !ok {
		return WeeklyRule{Weekday: weekday, Available: false}, false
	}
	return rule, true
}

// Materialize backfills any missing weekday with an unavailable rule so the
// schedule always covers Monday through Sunday.
func (s WeekSchedule) Materialize() WeekSchedule {
	full := make(WeekSchedule, 7)
	for weekday := WeekdayMonday; weekday <= WeekdaySunday; weekday++ {
		rule, _ := s.ForWeekday(weekday)
		full[weekday] = rule
	}
	return full
}
