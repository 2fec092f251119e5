package availability

import (
	"time"

	"github.com/meetgrid/booking-api/internal/models"
)

// bridgeOffsets are the owner-local dates that can feed a single visitor
// date. With zone offsets of up to 24 hours either way, the owner's business
// day may start on the visitor's previous day or spill into the next one, so
// the day before, the day itself and the day after must all be examined.
var bridgeOffsets = [3]int{-1, 0, 1}

// CandidateWindows collects the owner's business-hours windows that touch the
// visitor's selected date once converted into the visitor's zone. Windows
// that do not start or end on the visitor date are discarded. Each surviving
// window keeps the owner-local date it came from.
func CandidateWindows(visitorDate Date, ownerLoc, visitorLoc *time.Location, schedule models.WeekSchedule) []Window {
	var windows []Window
	for _, offset := range bridgeOffsets {
		ownerDate := visitorDate.AddDays(offset)
		rule, _ := schedule.ForWeekday(ownerDate.Weekday())

		w, ok := ResolveDay(ownerDate, rule, ownerLoc)
		if !ok {
			continue
		}

		start := w.Start.In(visitorLoc)
		end := w.End.In(visitorLoc)
		if DateOf(start) != visitorDate && DateOf(end) != visitorDate {
			continue
		}
		windows = append(windows, Window{Start: start, End: end, OwnerDate: ownerDate})
	}
	return windows
}
