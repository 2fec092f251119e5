package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/availability"
	"github.com/meetgrid/booking-api/internal/models"
	"github.com/meetgrid/booking-api/pkg/config"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

type profileFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Profile, error)
}

type scheduleReader interface {
	GetWeekSchedule(ctx context.Context, profileID string) (models.WeekSchedule, error)
}

type eventReader interface {
	ListBetween(ctx context.Context, profileID string, from, to time.Time) ([]models.BusyEvent, error)
}

// AvailabilityService fetches a profile's schedule and busy events and runs
// the slot engine over them. The engine itself stays pure; all I/O lives
// here.
type AvailabilityService struct {
	profiles profileFinder
	rules    scheduleReader
	events   eventReader
	engine   *availability.Engine
	cache    *CacheService
	metrics  *MetricsService
	booking  config.BookingConfig
	logger   *zap.Logger
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(
	profiles profileFinder,
	rules scheduleReader,
	events eventReader,
	engine *availability.Engine,
	cache *CacheService,
	metrics *MetricsService,
	booking config.BookingConfig,
	logger *zap.Logger,
) *AvailabilityService {
	if engine == nil {
		engine = availability.New(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		profiles: profiles,
		rules:    rules,
		events:   events,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		booking:  booking,
		logger:   logger,
	}
}

// SlotsRequest asks for the bookable slots on one visitor-local date.
type SlotsRequest struct {
	Slug        string
	Date        string
	VisitorZone string
	DurationRaw string
}

// SlotsResponse lists the bookable slot labels for the date.
type SlotsResponse struct {
	Date     string             `json:"date"`
	Timezone string             `json:"timezone"`
	Duration int                `json:"duration_minutes"`
	Slots    []string           `json:"slots"`
	Owner    models.ProfileInfo `json:"owner"`
}

// Slots computes the bookable slot labels for one date. An empty day is a
// successful response with an empty slot list.
func (s *AvailabilityService) Slots(ctx context.Context, req SlotsRequest) (*SlotsResponse, error) {
	profile, err := s.findProfile(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	date, err := availability.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	duration := availability.ParseDurationMinutes(req.DurationRaw)
	cfg := s.engineConfig(&duration)

	schedule, events, err := s.loadInputs(ctx, profile.ID, date, date)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	labels := s.engine.AvailableSlots(availability.Query{
		Date:        date,
		OwnerZone:   profile.Timezone,
		VisitorZone: req.VisitorZone,
		Schedule:    schedule,
		Events:      events,
		Config:      cfg,
	})
	s.metrics.ObserveComputation("slots", time.Since(started), len(labels))

	return &SlotsResponse{
		Date:     date.String(),
		Timezone: req.VisitorZone,
		Duration: int(cfg.Duration / time.Minute),
		Slots:    labels,
		Owner:    profileInfo(profile),
	}, nil
}

// DayRequest asks whether one visitor-local date has any bookable slot.
type DayRequest struct {
	Slug        string
	Date        string
	VisitorZone string
}

// HasAvailability answers the per-date boolean via the gap search.
func (s *AvailabilityService) HasAvailability(ctx context.Context, req DayRequest) (bool, error) {
	profile, err := s.findProfile(ctx, req.Slug)
	if err != nil {
		return false, err
	}

	date, err := availability.ParseDate(req.Date)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	schedule, events, err := s.loadInputs(ctx, profile.ID, date, date)
	if err != nil {
		return false, err
	}

	started := time.Now()
	found := s.engine.DateHasAvailability(availability.Query{
		Date:        date,
		OwnerZone:   profile.Timezone,
		VisitorZone: req.VisitorZone,
		Schedule:    schedule,
		Events:      events,
		Config:      s.engineConfig(nil),
	})
	s.metrics.ObserveComputation("day", time.Since(started), -1)
	s.metrics.RecordGapSearch(found)
	return found, nil
}

// MonthRequest asks for a per-date bookability map over one calendar month.
type MonthRequest struct {
	Slug        string
	Year        int
	Month       int
	VisitorZone string
}

// MonthOverview returns the date→bookable map for calendar rendering,
// serving from cache when enabled.
func (s *AvailabilityService) MonthOverview(ctx context.Context, req MonthRequest) (map[string]bool, error) {
	profile, err := s.findProfile(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("overview:%s:%04d-%02d:%s", profile.ID, req.Year, req.Month, req.VisitorZone)
	var cached map[string]bool
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	first := availability.Date{Year: req.Year, Month: time.Month(req.Month), Day: 1}
	last := first.AddDays(availability.DaysInMonth(req.Year, time.Month(req.Month)))
	schedule, events, err := s.loadInputs(ctx, profile.ID, first, last)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	overview, err := s.engine.MonthOverview(req.Year, time.Month(req.Month), availability.Query{
		OwnerZone:   profile.Timezone,
		VisitorZone: req.VisitorZone,
		Schedule:    schedule,
		Events:      events,
		Config:      s.engineConfig(nil),
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveComputation("month", time.Since(started), -1)

	if err := s.cache.Set(ctx, key, overview, 0); err != nil {
		s.logger.Warn("month overview cache write failed", zap.String("key", key), zap.Error(err))
	}
	return overview, nil
}

// engineConfig merges product-level booking defaults with an optional
// per-request duration override.
func (s *AvailabilityService) engineConfig(durationMinutes *int) availability.Config {
	params := availability.ConfigParams{DurationMinutes: durationMinutes}
	if s.booking.DurationMinutes > 0 && durationMinutes == nil {
		params.DurationMinutes = &s.booking.DurationMinutes
	}
	if s.booking.BufferMinutes >= 0 {
		buffer := s.booking.BufferMinutes
		params.BufferMinutes = &buffer
	}
	if s.booking.MinAdvanceHours >= 0 {
		notice := s.booking.MinAdvanceHours
		params.MinAdvanceHours = &notice
	}
	if s.booking.MaxAdvanceDays > 0 {
		horizon := s.booking.MaxAdvanceDays
		params.MaxAdvanceDays = &horizon
	}
	return availability.NewConfig(params)
}

func (s *AvailabilityService) findProfile(ctx context.Context, slug string) (*models.Profile, error) {
	profile, err := s.profiles.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking page not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// loadInputs materializes the schedule and the busy events overlapping the
// requested date range padded by two days on each side, matching the
// bridging neighborhood the engine examines.
func (s *AvailabilityService) loadInputs(ctx context.Context, profileID string, from, to availability.Date) (models.WeekSchedule, []models.BusyEvent, error) {
	schedule, err := s.rules.GetWeekSchedule(ctx, profileID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}

	lo := from.AddDays(-2).StartOfDay(time.UTC)
	hi := to.AddDays(2).EndOfDay(time.UTC)
	events, err := s.events.ListBetween(ctx, profileID, lo, hi)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load busy events")
	}
	return schedule, events, nil
}

func profileInfo(p *models.Profile) models.ProfileInfo {
	return models.ProfileInfo{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Slug:        p.Slug,
		Timezone:    p.Timezone,
	}
}
