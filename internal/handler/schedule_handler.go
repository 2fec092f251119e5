package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetgrid/booking-api/internal/service"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
	"github.com/meetgrid/booking-api/pkg/response"
)

// ScheduleHandler manages the owner's weekly availability endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
	exports *service.ExportService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exports: exports}
}

// GetWeek godoc
// @Summary Get the weekly schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	schedule, err := h.service.GetWeekSchedule(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// UpsertRule godoc
// @Summary Replace the rule for one weekday
// @Tags Schedule
// @Accept json
// @Produce json
// @Param weekday path int true "ISO weekday (1=Monday .. 7=Sunday)"
// @Param payload body service.UpsertRuleRequest true "Weekly rule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /schedule/{weekday} [put]
func (h *ScheduleHandler) UpsertRule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "weekday must be 1 through 7"))
		return
	}

	var req service.UpsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Weekday = weekday

	rule, err := h.service.UpsertRule(c.Request.Context(), claims.ProfileID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// UpdateTimezone godoc
// @Summary Change the timezone business hours are entered in
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body object true "Timezone payload"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /schedule/timezone [put]
func (h *ScheduleHandler) UpdateTimezone(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Timezone string `json:"timezone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "timezone required"))
		return
	}

	if err := h.service.UpdateTimezone(c.Request.Context(), claims.ProfileID, payload.Timezone); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCalendar godoc
// @Summary Download a month availability report
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param slug query string true "Booking page slug"
// @Param year query int true "Calendar year"
// @Param month query int true "Calendar month (1-12)"
// @Param tz query string false "Report timezone"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /schedule/calendar/export [get]
func (h *ScheduleHandler) ExportCalendar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exports.MonthReport(c.Request.Context(), service.ExportRequest{
		Slug:        c.Query("slug"),
		Year:        year,
		Month:       month,
		VisitorZone: c.Query("tz"),
		Format:      c.DefaultQuery("format", service.FormatCSV),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
