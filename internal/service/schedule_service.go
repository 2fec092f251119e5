package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/availability"
	"github.com/meetgrid/booking-api/internal/models"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
)

type scheduleRepository interface {
	GetWeekSchedule(ctx context.Context, profileID string) (models.WeekSchedule, error)
	UpsertRule(ctx context.Context, profileID string, rule models.WeeklyRule) error
}

type timezoneUpdater interface {
	UpdateTimezone(ctx context.Context, id, timezone string) error
}

// ScheduleService manages the owner's weekly availability rules.
type ScheduleService struct {
	repo     scheduleRepository
	profiles timezoneUpdater
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(repo scheduleRepository, profiles timezoneUpdater, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, profiles: profiles, cache: cache, validate: validate, logger: logger}
}

// BreakInput is one break inside a weekday's hours, as submitted by the owner.
type BreakInput struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Label string `json:"label" validate:"max=120"`
}

// UpsertRuleRequest replaces the availability rule for one weekday.
type UpsertRuleRequest struct {
	Weekday   int          `json:"weekday" validate:"required,min=1,max=7"`
	Available bool         `json:"available"`
	Start     string       `json:"start"`
	End       string       `json:"end"`
	Breaks    []BreakInput `json:"breaks" validate:"dive"`
}

// GetWeekSchedule returns the owner's full Monday-through-Sunday schedule.
func (s *ScheduleService) GetWeekSchedule(ctx context.Context, profileID string) (models.WeekSchedule, error) {
	schedule, err := s.repo.GetWeekSchedule(ctx, profileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}
	return schedule, nil
}

// UpsertRule validates and persists the rule for one weekday, then drops any
// cached month overviews for the profile. Breaks that fall partly or wholly
// outside the day's hours are accepted with a warning; the engine ignores the
// out-of-hours portion.
func (s *ScheduleService) UpsertRule(ctx context.Context, profileID string, req UpsertRuleRequest) (*models.WeeklyRule, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekly rule")
	}

	rule, err := s.buildRule(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertRule(ctx, profileID, *rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save weekly rule")
	}

	s.invalidateOverviews(ctx, profileID)
	return rule, nil
}

// UpdateTimezone changes the zone the owner's hours are interpreted in.
func (s *ScheduleService) UpdateTimezone(ctx context.Context, profileID, timezone string) error {
	if _, err := availability.LoadZone(timezone); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", timezone))
	}
	if err := s.profiles.UpdateTimezone(ctx, profileID, timezone); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timezone")
	}
	s.invalidateOverviews(ctx, profileID)
	return nil
}

func (s *ScheduleService) buildRule(req UpsertRuleRequest) (*models.WeeklyRule, error) {
	rule := models.WeeklyRule{Weekday: req.Weekday, Available: req.Available}
	if !req.Available {
		return &rule, nil
	}

	start, err := models.ParseTimeOfDay(req.Start)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start must be HH:MM")
	}
	end, err := models.ParseTimeOfDay(req.End)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must be HH:MM")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start must be before end")
	}
	rule.Start = &start
	rule.End = &end

	for i, b := range req.Breaks {
		bs, err := models.ParseTimeOfDay(b.Start)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("break %d: start must be HH:MM", i+1))
		}
		be, err := models.ParseTimeOfDay(b.End)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("break %d: end must be HH:MM", i+1))
		}
		if !bs.Before(be) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("break %d: start must be before end", i+1))
		}
		if bs.Before(start) || end.Before(be) {
			s.logger.Warn("break extends outside day hours",
				zap.Int("weekday", req.Weekday),
				zap.String("break_start", bs.String()),
				zap.String("break_end", be.String()))
		}
		rule.Breaks = append(rule.Breaks, models.Break{
			Start:     bs,
			End:       be,
			Label:     b.Label,
			SortOrder: i,
		})
	}

	return &rule, nil
}

func (s *ScheduleService) invalidateOverviews(ctx context.Context, profileID string) {
	pattern := fmt.Sprintf("overview:%s:*", profileID)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("overview cache invalidation failed", zap.String("profile_id", profileID), zap.Error(err))
	}
}
