package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/models"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func weekdaySchedule(start, end models.TimeOfDay, breaks []models.Break, weekdays ...int) models.WeekSchedule {
	schedule := models.WeekSchedule{}
	for _, wd := range weekdays {
		s, e := start, end
		schedule[wd] = models.WeeklyRule{Weekday: wd, Available: true, Start: &s, End: &e, Breaks: breaks}
	}
	return schedule.Materialize()
}

func TestNewConfigDefaultsAndClamping(t *testing.T) {
	cfg := NewConfig(ConfigParams{})
	assert.Equal(t, 30*time.Minute, cfg.Duration)
	assert.Equal(t, 15*time.Minute, cfg.Buffer)
	assert.Equal(t, 3*time.Hour, cfg.MinAdvance)
	assert.Equal(t, 90*24*time.Hour, cfg.MaxAdvance)

	zero, huge, negative := 0, 5000, -10
	cfg = NewConfig(ConfigParams{DurationMinutes: &zero, BufferMinutes: &negative, MinAdvanceHours: &negative, MaxAdvanceDays: &zero})
	assert.Equal(t, time.Minute, cfg.Duration)
	assert.Equal(t, time.Duration(0), cfg.Buffer)
	assert.Equal(t, time.Duration(0), cfg.MinAdvance)
	assert.Equal(t, 90*24*time.Hour, cfg.MaxAdvance)

	cfg = NewConfig(ConfigParams{DurationMinutes: &huge})
	assert.Equal(t, 24*time.Hour, cfg.Duration)
}

func TestParseDurationMinutes(t *testing.T) {
	assert.Equal(t, 30, ParseDurationMinutes(""))
	assert.Equal(t, 30, ParseDurationMinutes("half an hour"))
	assert.Equal(t, 45, ParseDurationMinutes("45"))
	assert.Equal(t, 0, ParseDurationMinutes("0"))
}

func TestAvailableSlotsWithBreakAndEvent(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(zap.NewNop(), fixedClock(now))

	schedule := weekdaySchedule(
		models.TimeOfDay{Hour: 9}, models.TimeOfDay{Hour: 17},
		[]models.Break{{Start: models.TimeOfDay{Hour: 12}, End: models.TimeOfDay{Hour: 12, Minute: 30}}},
		3,
	)
	events := []models.BusyEvent{{
		StartsAt: time.Date(2025, time.June, 11, 14, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, time.June, 11, 15, 0, 0, 0, time.UTC),
	}}

	labels := engine.AvailableSlots(Query{
		Date:     Date{2025, time.June, 11},
		Schedule: schedule,
		Events:   events,
		Config:   NewConfig(ConfigParams{}),
	})

	// 16 raw half-hour slots, minus the 12:00 break slot, minus the four
	// slots the buffered 2-3 PM event blocks.
	assert.Len(t, labels, 11)
	assert.Equal(t, "9:00 AM", labels[0])
	assert.Contains(t, labels, "12:30 PM")
	assert.Contains(t, labels, "1:00 PM")
	assert.Contains(t, labels, "3:30 PM")
	assert.NotContains(t, labels, "12:00 PM")
	assert.NotContains(t, labels, "1:30 PM")
	assert.NotContains(t, labels, "2:00 PM")
	assert.NotContains(t, labels, "3:00 PM")
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(zap.NewNop(), fixedClock(now))

	labels := engine.AvailableSlots(Query{
		Date:     Date{2025, time.June, 11},
		Schedule: models.WeekSchedule{}.Materialize(),
		Config:   NewConfig(ConfigParams{}),
	})

	assert.Empty(t, labels)
}

func TestAvailableSlotsDeduplicatesFoldLabels(t *testing.T) {
	// Clocks fall back in New York on 2025-11-02: 1:00 to 2:00 AM happens
	// twice. The engine books by label, so each wall time appears once.
	now := time.Date(2025, time.October, 30, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(zap.NewNop(), fixedClock(now))

	buffer, minAdvance := 0, 0
	schedule := weekdaySchedule(models.TimeOfDay{Hour: 1}, models.TimeOfDay{Hour: 3}, nil, 7)

	labels := engine.AvailableSlots(Query{
		Date:        Date{2025, time.November, 2},
		OwnerZone:   "America/New_York",
		VisitorZone: "America/New_York",
		Schedule:    schedule,
		Config:      NewConfig(ConfigParams{BufferMinutes: &buffer, MinAdvanceHours: &minAdvance}),
	})

	assert.Equal(t, []string{"1:00 AM", "1:30 AM", "2:00 AM", "2:30 AM"}, labels)
}

func TestAvailableSlotsUnknownZoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(zap.NewNop(), fixedClock(now))
	schedule := weekdaySchedule(models.TimeOfDay{Hour: 9}, models.TimeOfDay{Hour: 10}, nil, 3)

	query := Query{
		Date:     Date{2025, time.June, 11},
		Schedule: schedule,
		Config:   NewConfig(ConfigParams{}),
	}

	utcLabels := engine.AvailableSlots(query)

	query.VisitorZone = "Not/AZone"
	assert.Equal(t, utcLabels, engine.AvailableSlots(query))
}

func TestDateHasAvailabilityAgreesWithSlotListing(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(zap.NewNop(), fixedClock(now))
	schedule := weekdaySchedule(models.TimeOfDay{Hour: 9}, models.TimeOfDay{Hour: 17}, nil, 3)

	free := Query{
		Date:     Date{2025, time.June, 11},
		Schedule: schedule,
		Config:   NewConfig(ConfigParams{}),
	}
	assert.NotEmpty(t, engine.AvailableSlots(free))
	assert.True(t, engine.DateHasAvailability(free))

	booked := free
	booked.Events = []models.BusyEvent{{
		StartsAt: time.Date(2025, time.June, 11, 8, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, time.June, 11, 18, 0, 0, 0, time.UTC),
	}}
	assert.Empty(t, engine.AvailableSlots(booked))
	assert.False(t, engine.DateHasAvailability(booked))

	offDay := free
	offDay.Date = Date{2025, time.June, 12}
	assert.False(t, engine.DateHasAvailability(offDay))
}

func TestMonthOverviewHorizon(t *testing.T) {
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)
	engine := NewWithClock(zap.NewNop(), fixedClock(now))

	maxAdvance, minAdvance := 10, 0
	schedule := weekdaySchedule(models.TimeOfDay{Hour: 9}, models.TimeOfDay{Hour: 17}, nil, 1, 2, 3, 4, 5, 6, 7)

	overview, err := engine.MonthOverview(2025, time.June, Query{
		Schedule: schedule,
		Config:   NewConfig(ConfigParams{MaxAdvanceDays: &maxAdvance, MinAdvanceHours: &minAdvance}),
	})
	require.NoError(t, err)
	require.Len(t, overview, 30)

	assert.False(t, overview["2025-06-14"], "past dates are never bookable")
	assert.True(t, overview["2025-06-15"], "today is within the horizon")
	assert.True(t, overview["2025-06-25"])
	assert.False(t, overview["2025-06-26"], "beyond the advance-booking horizon")
}

func TestMonthOverviewInvalidMonth(t *testing.T) {
	engine := New(zap.NewNop())

	_, err := engine.MonthOverview(2025, time.Month(13), Query{Config: NewConfig(ConfigParams{})})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
