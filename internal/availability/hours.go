package availability

import (
	"time"

	"github.com/meetgrid/booking-api/internal/models"
)

// Window is a contiguous instant range of business hours on one owner-local
// calendar date. OwnerDate remembers which owner day produced the window so
// that day's breaks can be applied later, after zone conversion.
type Window struct {
	Start     time.Time
	End       time.Time
	OwnerDate Date
}

// ResolveDay turns the owner's recurring rule for one calendar date into an
// instant window in the owner's zone. It returns false when the day is
// unavailable or the rule carries no hours.
func ResolveDay(d Date, rule models.WeeklyRule, ownerLoc *time.Location) (Window, bool) {
	if !rule.Available || rule.Start == nil || rule.End == nil {
		return Window{}, false
	}
	return Window{
		Start:     Localize(d, *rule.Start, ownerLoc),
		End:       Localize(d, *rule.End, ownerLoc),
		OwnerDate: d,
	}, true
}
