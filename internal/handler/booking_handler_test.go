package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/availability"
	"github.com/meetgrid/booking-api/internal/models"
	"github.com/meetgrid/booking-api/internal/service"
	"github.com/meetgrid/booking-api/pkg/config"
)

type fakeProfileRepo struct {
	profile *models.Profile
	err     error
}

func (f *fakeProfileRepo) FindBySlug(_ context.Context, _ string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeRuleRepo struct {
	schedule models.WeekSchedule
}

func (f *fakeRuleRepo) GetWeekSchedule(_ context.Context, _ string) (models.WeekSchedule, error) {
	return f.schedule, nil
}

type fakeEventRepo struct {
	events []models.BusyEvent
}

func (f *fakeEventRepo) ListBetween(_ context.Context, _ string, _, _ time.Time) ([]models.BusyEvent, error) {
	return f.events, nil
}

func bookingTestRouter(t *testing.T, profiles *fakeProfileRepo, rules *fakeRuleRepo, events *fakeEventRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC) }
	engine := availability.NewWithClock(zap.NewNop(), clock)
	booking := config.BookingConfig{DurationMinutes: 30, BufferMinutes: 15, MinAdvanceHours: 3, MaxAdvanceDays: 90}
	svc := service.NewAvailabilityService(profiles, rules, events, engine, nil, nil, booking, zap.NewNop())
	h := NewBookingHandler(svc)

	r := gin.New()
	r.GET("/book/:slug/slots", h.Slots)
	r.GET("/book/:slug/days/:date", h.DayAvailability)
	r.GET("/book/:slug/calendar", h.Calendar)
	return r
}

func bookableProfile() *models.Profile {
	return &models.Profile{ID: "prof-1", Email: "ana@example.com", DisplayName: "Ana", Slug: "ana", Timezone: "UTC", Active: true}
}

func wednesdaySchedule() models.WeekSchedule {
	start := models.TimeOfDay{Hour: 9}
	end := models.TimeOfDay{Hour: 17}
	return models.WeekSchedule{
		3: {Weekday: 3, Available: true, Start: &start, End: &end},
	}.Materialize()
}

func TestBookingHandlerSlots(t *testing.T) {
	r := bookingTestRouter(t, &fakeProfileRepo{profile: bookableProfile()}, &fakeRuleRepo{schedule: wednesdaySchedule()}, &fakeEventRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/book/ana/slots?date=2025-06-11", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.SlotsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "2025-06-11", envelope.Data.Date)
	assert.Len(t, envelope.Data.Slots, 16)
	assert.Equal(t, "9:00 AM", envelope.Data.Slots[0])
	assert.Equal(t, "ana", envelope.Data.Owner.Slug)
}

func TestBookingHandlerSlotsBadDate(t *testing.T) {
	r := bookingTestRouter(t, &fakeProfileRepo{profile: bookableProfile()}, &fakeRuleRepo{schedule: wednesdaySchedule()}, &fakeEventRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/book/ana/slots?date=tomorrow", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerSlotsUnknownSlug(t *testing.T) {
	r := bookingTestRouter(t, &fakeProfileRepo{err: sql.ErrNoRows}, &fakeRuleRepo{}, &fakeEventRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/book/ghost/slots?date=2025-06-11", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandlerDayAvailability(t *testing.T) {
	r := bookingTestRouter(t, &fakeProfileRepo{profile: bookableProfile()}, &fakeRuleRepo{schedule: wednesdaySchedule()}, &fakeEventRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/book/ana/days/2025-06-11", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Date      string `json:"date"`
			Available bool   `json:"available"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Available)
}

func TestBookingHandlerCalendar(t *testing.T) {
	r := bookingTestRouter(t, &fakeProfileRepo{profile: bookableProfile()}, &fakeRuleRepo{schedule: wednesdaySchedule()}, &fakeEventRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/book/ana/calendar?year=2025&month=6", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Year  int             `json:"year"`
			Month int             `json:"month"`
			Days  map[string]bool `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2025, envelope.Data.Year)
	assert.Len(t, envelope.Data.Days, 30)
	assert.True(t, envelope.Data.Days["2025-06-11"])
	assert.False(t, envelope.Data.Days["2025-06-12"])
}

func TestBookingHandlerCalendarBadMonth(t *testing.T) {
	r := bookingTestRouter(t, &fakeProfileRepo{profile: bookableProfile()}, &fakeRuleRepo{schedule: wednesdaySchedule()}, &fakeEventRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/book/ana/calendar?year=2025&month=13", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
