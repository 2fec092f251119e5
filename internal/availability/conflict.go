package availability

import (
	"sort"
	"time"

	"github.com/meetgrid/booking-api/internal/models"
)

// Interval is a half-open busy period [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// AnchorEvents converts busy events into concrete instant intervals. All-day
// events are anchored to midnight of their calendar date in the reference
// zone and cover the full 24 hours. Events whose all-day date cannot be
// parsed are dropped rather than aborting the whole computation.
func AnchorEvents(events []models.BusyEvent, ref *time.Location) []Interval {
	if len(events) == 0 {
		return nil
	}
	intervals := make([]Interval, 0, len(events))
	for _, ev := range events {
		if ev.AllDay {
			d, err := ParseDate(ev.AllDayDate)
			if err != nil {
				continue
			}
			start := d.StartOfDay(ref)
			intervals = append(intervals, Interval{Start: start, End: start.Add(24 * time.Hour)})
			continue
		}
		intervals = append(intervals, Interval{Start: ev.StartsAt, End: ev.EndsAt})
	}
	return intervals
}

// Near restricts intervals to a ±2-day neighborhood of the target date,
// keeping the per-date cost of the month overview proportional to the events
// actually close to that date.
func Near(intervals []Interval, d Date, loc *time.Location) []Interval {
	lo := d.AddDays(-2).StartOfDay(loc)
	hi := d.AddDays(2).EndOfDay(loc)
	var near []Interval
	for _, iv := range intervals {
		if iv.Start.Before(hi) && iv.End.After(lo) {
			near = append(near, iv)
		}
	}
	return near
}

// FilterSlots keeps only the candidate slots a visitor can actually book:
// the slot must start no earlier than the advance-notice floor (inclusive),
// no later than the advance-booking ceiling (inclusive), and must not collide
// with any busy event once the buffer is applied on both sides.
func FilterSlots(slots []Slot, events []Interval, now time.Time, cfg Config) []Slot {
	floor := now.Add(cfg.MinAdvance)
	ceiling := now.Add(cfg.MaxAdvance)

	kept := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Start.Before(floor) || slot.Start.After(ceiling) {
			continue
		}
		slotEnd := slot.Start.Add(cfg.Duration)
		if conflicts(slot.Start, slotEnd, events, cfg.Buffer) {
			continue
		}
		kept = append(kept, slot)
	}
	return kept
}

// conflicts applies the buffer-padded overlap test against every event:
// e.Start < slotEnd+buffer AND e.End+buffer > slotStart.
func conflicts(slotStart, slotEnd time.Time, events []Interval, buffer time.Duration) bool {
	for _, ev := range events {
		if ev.Start.Before(slotEnd.Add(buffer)) && ev.End.Add(buffer).After(slotStart) {
			return true
		}
	}
	return false
}

// HasGap reports whether any duration-sized, buffer-respecting gap exists
// inside the business-hours window [wStart, wEnd] on the target date, without
// enumerating individual slots. Events need not be sorted or merged;
// overlapping and duplicate events are absorbed by a running busy-until
// watermark.
func HasGap(wStart, wEnd, dayStart, dayEnd time.Time, events []Interval, now time.Time, cfg Config) bool {
	startBound := maxTime(wStart, dayStart, now.Add(cfg.MinAdvance))
	latestStart := minTime(dayEnd, wEnd.Add(-cfg.Duration))
	if startBound.After(latestStart) {
		return false
	}

	var busy []Interval
	for _, ev := range events {
		if ev.Start.Before(wEnd) && ev.End.After(startBound) {
			busy = append(busy, ev)
		}
	}
	if len(busy) == 0 {
		return true
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	// Gap before the first event.
	if busy[0].Start.Sub(startBound) >= cfg.Duration+cfg.Buffer {
		return true
	}

	prevEnd := busy[0].End
	for _, ev := range busy[1:] {
		gapStart := prevEnd.Add(cfg.Buffer)
		gapEnd := minTime(latestStart, ev.Start.Add(-cfg.Buffer-cfg.Duration))
		if !gapStart.After(gapEnd) {
			return true
		}
		if ev.End.After(prevEnd) {
			prevEnd = ev.End
		}
	}

	// Gap after the last event.
	return !prevEnd.Add(cfg.Buffer).After(latestStart)
}

func maxTime(times ...time.Time) time.Time {
	max := times[0]
	for _, t := range times[1:] {
		if t.After(max) {
			max = t
		}
	}
	return max
}

func minTime(times ...time.Time) time.Time {
	min := times[0]
	for _, t := range times[1:] {
		if t.Before(min) {
			min = t
		}
	}
	return min
}
