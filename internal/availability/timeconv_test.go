package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetgrid/booking-api/internal/models"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestLocalizePlainTime(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	got := Localize(Date{2025, time.June, 11}, models.TimeOfDay{Hour: 14, Minute: 0}, ny)

	assert.Equal(t, time.Date(2025, time.June, 11, 18, 0, 0, 0, time.UTC), got.UTC())
	assert.Equal(t, 14, got.Hour())
}

func TestLocalizeSpringForwardGapFallsBackToUTC(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	// 2:30 AM on 2025-03-09 does not exist in New York; clocks jump from
	// 2:00 to 3:00.
	got := Localize(Date{2025, time.March, 9}, models.TimeOfDay{Hour: 2, Minute: 30}, ny)

	assert.Equal(t, time.Date(2025, time.March, 9, 2, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestLocalizeFallBackFoldPicksEarlierOccurrence(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	// 1:30 AM on 2025-11-02 occurs twice in New York, first at UTC-4 and
	// again at UTC-5. The earlier occurrence wins.
	got := Localize(Date{2025, time.November, 2}, models.TimeOfDay{Hour: 1, Minute: 30}, ny)

	assert.Equal(t, time.Date(2025, time.November, 2, 5, 30, 0, 0, time.UTC), got.UTC())
	assert.Equal(t, 1, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestLocalizeNilLocationDefaultsToUTC(t *testing.T) {
	got := Localize(Date{2025, time.June, 11}, models.TimeOfDay{Hour: 9, Minute: 0}, nil)
	assert.Equal(t, time.Date(2025, time.June, 11, 9, 0, 0, 0, time.UTC), got)
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("Pacific/Auckland")
	require.NoError(t, err)
	assert.Equal(t, "Pacific/Auckland", loc.String())

	loc, err = LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadZone("Not/AZone")
	assert.Error(t, err)
}

func TestShiftZoneKeepsInstant(t *testing.T) {
	instant := time.Date(2025, time.June, 11, 18, 0, 0, 0, time.UTC)

	shifted, err := ShiftZone(instant, "America/New_York")
	require.NoError(t, err)

	assert.True(t, shifted.Equal(instant))
	assert.Equal(t, 14, shifted.Hour())
}
