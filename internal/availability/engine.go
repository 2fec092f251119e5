package availability

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/models"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

// Booking constraint defaults, applied in one place when a caller leaves a
// field unset.
const (
	DefaultDurationMinutes = 30
	DefaultBufferMinutes   = 15
	DefaultMinAdvanceHours = 3
	DefaultMaxAdvanceDays  = 90

	maxDurationMinutes = 24 * 60
)

// Config carries fully-resolved booking constraints for one calculation.
// Build it with NewConfig so defaults and clamping are applied consistently.
type Config struct {
	Duration   time.Duration
	Buffer     time.Duration
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

// ConfigParams are caller-supplied overrides; nil means "use the default".
type ConfigParams struct {
	DurationMinutes *int
	BufferMinutes   *int
	MinAdvanceHours *int
	MaxAdvanceDays  *int
}

// NewConfig resolves overrides into a Config. Duration is clamped to
// [1, 1440] minutes; negative buffers and notice periods collapse to zero;
// a non-positive advance-booking horizon falls back to the default.
func NewConfig(p ConfigParams) Config {
	duration := DefaultDurationMinutes
	if p.DurationMinutes != nil {
		duration = *p.DurationMinutes
	}
	if duration < 1 {
		duration = 1
	}
	if duration > maxDurationMinutes {
		duration = maxDurationMinutes
	}

	buffer := DefaultBufferMinutes
	if p.BufferMinutes != nil {
		buffer = *p.BufferMinutes
	}
	if buffer < 0 {
		buffer = 0
	}

	minAdvance := DefaultMinAdvanceHours
	if p.MinAdvanceHours != nil {
		minAdvance = *p.MinAdvanceHours
	}
	if minAdvance < 0 {
		minAdvance = 0
	}

	maxAdvance := DefaultMaxAdvanceDays
	if p.MaxAdvanceDays != nil && *p.MaxAdvanceDays > 0 {
		maxAdvance = *p.MaxAdvanceDays
	}

	return Config{
		Duration:   time.Duration(duration) * time.Minute,
		Buffer:     time.Duration(buffer) * time.Minute,
		MinAdvance: time.Duration(minAdvance) * time.Hour,
		MaxAdvance: time.Duration(maxAdvance) * 24 * time.Hour,
	}
}

// ParseDurationMinutes interprets a caller-supplied duration string. A
// malformed or empty value falls back to the default rather than rejecting
// the request.
func ParseDurationMinutes(raw string) int {
	if raw == "" {
		return DefaultDurationMinutes
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultDurationMinutes
	}
	return minutes
}

// Query bundles the in-memory inputs for one availability calculation. The
// engine performs no I/O: the schedule and events are supplied fully
// materialized by the caller.
type Query struct {
	Date        Date
	OwnerZone   string
	VisitorZone string
	Schedule    models.WeekSchedule
	Events      []models.BusyEvent
	Config      Config
}

// Engine composes timezone bridging, slot generation and conflict filtering.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	now    func() time.Time
	logger *zap.Logger
}

// New constructs an Engine using the wall clock.
func New(logger *zap.Logger) *Engine {
	return NewWithClock(logger, time.Now)
}

// NewWithClock constructs an Engine with an injected clock.
func NewWithClock(logger *zap.Logger, now func() time.Time) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now, logger: logger}
}

// AvailableSlots computes the bookable slot labels on the visitor's selected
// date, ordered by time of day. An empty day yields an empty list, never an
// error.
func (e *Engine) AvailableSlots(q Query) []string {
	ownerLoc := e.zoneOrUTC(q.OwnerZone)
	visitorLoc := e.zoneOrUTC(q.VisitorZone)
	now := e.now()
	events := AnchorEvents(q.Events, ownerLoc)

	var slots []Slot
	for _, w := range CandidateWindows(q.Date, ownerLoc, visitorLoc, q.Schedule) {
		start, end, ok := ClipToDate(w, q.Date, visitorLoc)
		if !ok {
			continue
		}
		rule, _ := q.Schedule.ForWeekday(w.OwnerDate.Weekday())
		breaks := BreakIntervals(w.OwnerDate, rule.Breaks, ownerLoc)
		candidates := GenerateSlots(start, end, q.Config.Duration, breaks)
		slots = append(slots, FilterSlots(candidates, events, now, q.Config)...)
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })

	labels := make([]string, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if _, dup := seen[slot.Label]; dup {
			continue
		}
		seen[slot.Label] = struct{}{}
		labels = append(labels, slot.Label)
	}
	return labels
}

// DateHasAvailability reports whether at least one bookable slot exists on
// the visitor's date, using the gap search instead of enumerating slots. It
// short-circuits on the first bridging day that yields a gap.
func (e *Engine) DateHasAvailability(q Query) bool {
	ownerLoc := e.zoneOrUTC(q.OwnerZone)
	visitorLoc := e.zoneOrUTC(q.VisitorZone)
	now := e.now()

	events := Near(AnchorEvents(q.Events, ownerLoc), q.Date, visitorLoc)
	dayStart := q.Date.StartOfDay(visitorLoc)
	dayEnd := q.Date.EndOfDay(visitorLoc)

	for _, w := range CandidateWindows(q.Date, ownerLoc, visitorLoc, q.Schedule) {
		start, end, ok := ClipToDate(w, q.Date, visitorLoc)
		if !ok {
			continue
		}
		if HasGap(start, end, dayStart, dayEnd, events, now, q.Config) {
			return true
		}
	}
	return false
}

// MonthOverview maps every date of the month to a fast bookability boolean.
// Dates before today or beyond the advance-booking horizon are marked
// unavailable without running the gap search. An out-of-range month is the
// one hard error the engine surfaces.
func (e *Engine) MonthOverview(year int, month time.Month, q Query) (map[string]bool, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid calendar month")
	}

	visitorLoc := e.zoneOrUTC(q.VisitorZone)
	now := e.now()
	today := DateOf(now.In(visitorLoc))
	ceiling := now.Add(q.Config.MaxAdvance)

	days := DaysInMonth(year, month)
	overview := make(map[string]bool, days)
	for day := 1; day <= days; day++ {
		d := Date{Year: year, Month: month, Day: day}
		if d.Before(today) || d.StartOfDay(visitorLoc).After(ceiling) {
			overview[d.String()] = false
			continue
		}
		dq := q
		dq.Date = d
		overview[d.String()] = e.DateHasAvailability(dq)
	}
	return overview, nil
}

// zoneOrUTC loads a zone, substituting UTC when the lookup fails so one bad
// zone never aborts a whole availability computation.
func (e *Engine) zoneOrUTC(name string) *time.Location {
	loc, err := LoadZone(name)
	if err != nil {
		e.logger.Warn("unknown timezone, using UTC", zap.String("zone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
