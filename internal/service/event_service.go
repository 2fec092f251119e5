package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/availability"
	"github.com/meetgrid/booking-api/internal/models"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

type eventRepository interface {
	ListBetween(ctx context.Context, profileID string, from, to time.Time) ([]models.BusyEvent, error)
	Create(ctx context.Context, event *models.BusyEvent) error
	ReplaceForSource(ctx context.Context, profileID, source string, events []models.BusyEvent) error
	Delete(ctx context.Context, profileID, eventID string) error
}

// EventService manages the owner's busy events: manual blocks entered through
// the dashboard and synced sets replaced wholesale per calendar source.
type EventService struct {
	repo     eventRepository
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(repo eventRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, validate: validate, logger: logger}
}

// ListEventsRequest bounds the listing to a date range in the owner's zone.
type ListEventsRequest struct {
	ProfileID string `validate:"required"`
	From      string `validate:"required"`
	To        string `validate:"required"`
	Timezone  string
}

// List returns the busy events overlapping the requested date range.
func (s *EventService) List(ctx context.Context, req ListEventsRequest) ([]models.BusyEvent, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event listing")
	}

	from, err := availability.ParseDate(req.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, err := availability.ParseDate(req.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	loc, err := availability.LoadZone(req.Timezone)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", req.Timezone))
	}

	events, err := s.repo.ListBetween(ctx, req.ProfileID, from.StartOfDay(loc), to.EndOfDay(loc))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list busy events")
	}
	return events, nil
}

// CreateEventRequest adds one manual busy block.
type CreateEventRequest struct {
	ProfileID  string    `json:"-" validate:"required"`
	Title      string    `json:"title" validate:"max=200"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	AllDay     bool      `json:"all_day"`
	AllDayDate string    `json:"all_day_date"`
}

// Create stores a manual busy block and drops the profile's cached overviews.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*models.BusyEvent, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid busy event")
	}

	event := models.BusyEvent{
		ProfileID: req.ProfileID,
		Source:    "manual",
		Title:     req.Title,
		AllDay:    req.AllDay,
	}
	if req.AllDay {
		if _, err := availability.ParseDate(req.AllDayDate); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "all_day_date must be YYYY-MM-DD")
		}
		event.AllDayDate = req.AllDayDate
	} else {
		if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "starts_at and ends_at are required")
		}
		if !req.StartsAt.Before(req.EndsAt) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "starts_at must be before ends_at")
		}
		event.StartsAt = req.StartsAt.UTC()
		event.EndsAt = req.EndsAt.UTC()
	}

	if err := s.repo.Create(ctx, &event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create busy event")
	}

	s.invalidateOverviews(ctx, req.ProfileID)
	return &event, nil
}

// ReplaceForSource swaps the profile's synced events for one calendar source.
func (s *EventService) ReplaceForSource(ctx context.Context, profileID, source string, events []models.BusyEvent) error {
	if source == "" || source == "manual" {
		return appErrors.Clone(appErrors.ErrValidation, "source must name an external calendar")
	}
	if err := s.repo.ReplaceForSource(ctx, profileID, source, events); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace synced events")
	}
	s.invalidateOverviews(ctx, profileID)
	return nil
}

// Delete removes one of the profile's busy events.
func (s *EventService) Delete(ctx context.Context, profileID, eventID string) error {
	if err := s.repo.Delete(ctx, profileID, eventID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete busy event")
	}
	s.invalidateOverviews(ctx, profileID)
	return nil
}

func (s *EventService) invalidateOverviews(ctx context.Context, profileID string) {
	pattern := fmt.Sprintf("overview:%s:*", profileID)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("overview cache invalidation failed", zap.String("profile_id", profileID), zap.Error(err))
	}
}
