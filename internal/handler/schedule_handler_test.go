package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetgrid/booking-api/internal/middleware"
	"github.com/meetgrid/booking-api/internal/models"
	"github.com/meetgrid/booking-api/internal/service"
)

type fakeScheduleRepo struct {
	schedule models.WeekSchedule
	upserted []models.WeeklyRule
}

func (f *fakeScheduleRepo) GetWeekSchedule(_ context.Context, _ string) (models.WeekSchedule, error) {
	return f.schedule, nil
}

func (f *fakeScheduleRepo) UpsertRule(_ context.Context, _ string, rule models.WeeklyRule) error {
	f.upserted = append(f.upserted, rule)
	return nil
}

type fakeOverviewProvider struct {
	overview map[string]bool
}

func (f *fakeOverviewProvider) MonthOverview(_ context.Context, _ service.MonthRequest) (map[string]bool, error) {
	return f.overview, nil
}

func scheduleTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{ProfileID: "prof-1", Email: "ana@example.com"})
	return c, w
}

func TestScheduleHandlerUpsertRule(t *testing.T) {
	repo := &fakeScheduleRepo{}
	h := NewScheduleHandler(service.NewScheduleService(repo, nil, nil, nil, zap.NewNop()), nil)

	c, w := scheduleTestContext(t)
	body, _ := json.Marshal(service.UpsertRuleRequest{
		Available: true,
		Start:     "09:00",
		End:       "17:00",
		Breaks:    []service.BreakInput{{Start: "12:00", End: "13:00", Label: "Lunch"}},
	})
	req, _ := http.NewRequest(http.MethodPut, "/schedule/3", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "weekday", Value: "3"}}

	h.UpsertRule(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, 3, repo.upserted[0].Weekday)
	require.Len(t, repo.upserted[0].Breaks, 1)
}

func TestScheduleHandlerUpsertRuleBadWeekday(t *testing.T) {
	h := NewScheduleHandler(service.NewScheduleService(&fakeScheduleRepo{}, nil, nil, nil, zap.NewNop()), nil)

	c, w := scheduleTestContext(t)
	body, _ := json.Marshal(service.UpsertRuleRequest{Available: true, Start: "09:00", End: "17:00"})
	req, _ := http.NewRequest(http.MethodPut, "/schedule/nine", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "weekday", Value: "nine"}}

	h.UpsertRule(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGetWeek(t *testing.T) {
	start := models.TimeOfDay{Hour: 9}
	end := models.TimeOfDay{Hour: 17}
	schedule := models.WeekSchedule{
		3: {Weekday: 3, Available: true, Start: &start, End: &end},
	}.Materialize()
	h := NewScheduleHandler(service.NewScheduleService(&fakeScheduleRepo{schedule: schedule}, nil, nil, nil, zap.NewNop()), nil)

	c, w := scheduleTestContext(t)
	req, _ := http.NewRequest(http.MethodGet, "/schedule", nil)
	c.Request = req

	h.GetWeek(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data map[string]models.WeeklyRule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 7)
	assert.True(t, envelope.Data["3"].Available)
}

func TestScheduleHandlerGetWeekUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(service.NewScheduleService(&fakeScheduleRepo{}, nil, nil, nil, zap.NewNop()), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule", nil)
	c.Request = req

	h.GetWeek(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScheduleHandlerExportCalendar(t *testing.T) {
	provider := &fakeOverviewProvider{overview: map[string]bool{"2025-06-11": true}}
	exports := service.NewExportService(provider, zap.NewNop())
	h := NewScheduleHandler(service.NewScheduleService(&fakeScheduleRepo{}, nil, nil, nil, zap.NewNop()), exports)

	c, w := scheduleTestContext(t)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/calendar/export?slug=ana&year=2025&month=6&format=csv", nil)
	c.Request = req

	h.ExportCalendar(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "availability-2025-06.csv")
	assert.Contains(t, w.Body.String(), "2025-06-11,Wednesday,yes")
}
