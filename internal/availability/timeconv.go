package availability

import (
	"fmt"
	"time"

	"github.com/meetgrid/booking-api/internal/models"
)

// Localize resolves a (date, wall-clock time) pair to an instant in the given
// zone. It never fails:
//
//   - When the wall time is ambiguous (clocks rolled back, the time occurs
//     twice) the earlier of the two instants is chosen.
//   - When the wall time does not exist (clocks sprang forward over it) the
//     same date and time are reinterpreted in UTC.
//
// Both policies are fixed, not configurable.
func Localize(d Date, tod models.TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	t := time.Date(d.Year, d.Month, d.Day, tod.Hour, tod.Minute, 0, 0, loc)
	if !sameWall(t, d, tod) {
		// Spring-forward gap: the requested wall time was skipped in loc.
		return time.Date(d.Year, d.Month, d.Day, tod.Hour, tod.Minute, 0, 0, time.UTC)
	}

	// Fall-back fold: when the same wall time occurs one hour earlier as
	// well, the construction above may have picked the later occurrence.
	if earlier := t.Add(-time.Hour); sameWall(earlier, d, tod) {
		return earlier
	}
	return t
}

func sameWall(t time.Time, d Date, tod models.TimeOfDay) bool {
	year, month, day := t.Date()
	return year == d.Year && month == d.Month && day == d.Day &&
		t.Hour() == tod.Hour && t.Minute() == tod.Minute
}

// LoadZone resolves an IANA zone name. Lookup failure is an error for the
// single operation only; callers decide whether to substitute UTC.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ShiftZone re-expresses an instant in the named zone without changing the
// instant itself.
func ShiftZone(t time.Time, zone string) (time.Time, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
