package availability

import (
	"time"

	"github.com/meetgrid/booking-api/internal/models"
)

// Slot is one discrete bookable start time. Label is the externally visible
// identity of the slot and round-trips through ParseLabel.
type Slot struct {
	Start time.Time
	Label string
}

// labelLayout renders 12-hour clock labels such as "9:00 AM" and "12:30 PM".
const labelLayout = "3:04 PM"

// FormatLabel renders a slot start as its 12-hour clock label in the
// instant's own zone.
func FormatLabel(t time.Time) string {
	return t.Format(labelLayout)
}

// ParseLabel converts a slot label back to a wall-clock time of day.
func ParseLabel(label string) (models.TimeOfDay, error) {
	t, err := time.Parse(labelLayout, label)
	if err != nil {
		return models.TimeOfDay{}, err
	}
	return models.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ClipToDate trims a window to the portion overlapping the target date in the
// given zone. A window entirely outside the date yields ok=false. A window
// spanning either day boundary is clamped to 00:00:00 / 23:59:59.
func ClipToDate(w Window, d Date, loc *time.Location) (start, end time.Time, ok bool) {
	dayStart := d.StartOfDay(loc)
	dayEnd := d.EndOfDay(loc)

	if !w.End.After(dayStart) || !w.Start.Before(dayEnd) {
		return time.Time{}, time.Time{}, false
	}

	start, end = w.Start, w.End
	if start.Before(dayStart) {
		start = dayStart
	}
	if end.After(dayEnd) {
		end = dayEnd
	}
	return start, end, true
}

// BreakIntervals localizes a day's breaks, which are stored as time-of-day
// pairs, into instant intervals on the given owner date.
func BreakIntervals(ownerDate Date, breaks []models.Break, ownerLoc *time.Location) []Interval {
	if len(breaks) == 0 {
		return nil
	}
	intervals := make([]Interval, 0, len(breaks))
	for _, b := range breaks {
		intervals = append(intervals, Interval{
			Start: Localize(ownerDate, b.Start, ownerLoc),
			End:   Localize(ownerDate, b.End, ownerLoc),
		})
	}
	return intervals
}

// GenerateSlots slices a clipped window into fixed-duration slots, dropping
// any slot overlapping a break. Slicing is strict floor division: slot i
// starts at start + i*duration and no slot extends past end.
func GenerateSlots(start, end time.Time, duration time.Duration, breaks []Interval) []Slot {
	if duration <= 0 {
		return nil
	}
	count := int(end.Sub(start) / duration)
	if count <= 0 {
		return nil
	}

	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		slotStart := start.Add(time.Duration(i) * duration)
		slotEnd := slotStart.Add(duration)
		if overlapsAny(slotStart, slotEnd, breaks) {
			continue
		}
		slots = append(slots, Slot{Start: slotStart, Label: FormatLabel(slotStart)})
	}
	return slots
}

// overlapsAny applies the half-open overlap test [start, end) against each
// interval.
func overlapsAny(start, end time.Time, intervals []Interval) bool {
	for _, iv := range intervals {
		if start.Before(iv.End) && end.After(iv.Start) {
			return true
		}
	}
	return false
}
