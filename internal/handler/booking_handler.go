package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetgrid/booking-api/internal/service"
	appErrors "github.com/meetgrid/booking-api/pkg/errors"
	"github.com/meetgrid/booking-api/pkg/response"
)

// BookingHandler serves the public booking-page endpoints. Visitors hit these
// without authentication; the slug identifies the calendar owner.
type BookingHandler struct {
	service *service.AvailabilityService
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(svc *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Slots godoc
// @Summary List bookable slots for a date
// @Tags Booking
// @Produce json
// @Param slug path string true "Booking page slug"
// @Param date query string true "Date (YYYY-MM-DD) in the visitor's timezone"
// @Param tz query string false "Visitor IANA timezone"
// @Param duration query int false "Meeting duration in minutes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /book/{slug}/slots [get]
func (h *BookingHandler) Slots(c *gin.Context) {
	req := service.SlotsRequest{
		Slug:        c.Param("slug"),
		Date:        c.Query("date"),
		VisitorZone: c.Query("tz"),
		DurationRaw: c.Query("duration"),
	}

	res, err := h.service.Slots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// DayAvailability godoc
// @Summary Check whether a date has any bookable slot
// @Tags Booking
// @Produce json
// @Param slug path string true "Booking page slug"
// @Param date path string true "Date (YYYY-MM-DD) in the visitor's timezone"
// @Param tz query string false "Visitor IANA timezone"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /book/{slug}/days/{date} [get]
func (h *BookingHandler) DayAvailability(c *gin.Context) {
	req := service.DayRequest{
		Slug:        c.Param("slug"),
		Date:        c.Param("date"),
		VisitorZone: c.Query("tz"),
	}

	available, err := h.service.HasAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"date": req.Date, "available": available}, nil)
}

// Calendar godoc
// @Summary Month overview of bookable dates
// @Tags Booking
// @Produce json
// @Param slug path string true "Booking page slug"
// @Param year query int true "Calendar year"
// @Param month query int true "Calendar month (1-12)"
// @Param tz query string false "Visitor IANA timezone"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /book/{slug}/calendar [get]
func (h *BookingHandler) Calendar(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	overview, err := h.service.MonthOverview(c.Request.Context(), service.MonthRequest{
		Slug:        c.Param("slug"),
		Year:        year,
		Month:       month,
		VisitorZone: c.Query("tz"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  overview,
	}, nil)
}

func parseYearMonth(c *gin.Context) (int, int, error) {
	now := time.Now().UTC()

	year := now.Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year must be an integer")
		}
		year = parsed
	}

	month := int(now.Month())
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "month must be an integer")
		}
		month = parsed
	}

	return year, month, nil
}
