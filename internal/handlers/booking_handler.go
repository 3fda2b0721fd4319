package handlers

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/dto"
	"github.com/BruksfildServices01/weekly-signup/internal/httperr"
	"github.com/BruksfildServices01/weekly-signup/internal/httpresp"
	"github.com/BruksfildServices01/weekly-signup/internal/timezone"
	ucBooking "github.com/BruksfildServices01/weekly-signup/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	list   *ucBooking.ListWeek
	create *ucBooking.CreateBooking
	delete *ucBooking.DeleteBooking

	// tz decides which week "now" is when the client does not say.
	tz  string
	log *zap.Logger
}

func NewBookingHandler(
	list *ucBooking.ListWeek,
	create *ucBooking.CreateBooking,
	del *ucBooking.DeleteBooking,
	tz string,
	log *zap.Logger,
) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{
		list:   list,
		create: create,
		delete: del,
		tz:     tz,
		log:    log,
	}
}

// ======================================================
// HELPERS
// ======================================================

func (h *BookingHandler) weekParam(c *gin.Context) (civil.Date, error) {
	raw := strings.TrimSpace(c.Query("week"))
	if raw == "" {
		return timezone.Today(h.tz), nil
	}

	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, &domain.ValidationError{Field: "week", Reason: "invalid"}
	}
	return d, nil
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	date, err := h.weekParam(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	week, bookings, err := h.list.Execute(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewWeekResponse(week, bookings))
}

// ======================================================
// GRID (merged ranges)
// ======================================================

func (h *BookingHandler) Grid(c *gin.Context) {
	date, err := h.weekParam(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	week, bookings, err := h.list.Execute(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	actor := strings.TrimSpace(c.Query("actor"))
	httpresp.OK(c, dto.NewGridResponse(week, bookings, actor))
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	date, err := civil.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(c, h.log, &domain.ValidationError{Field: "date", Reason: "invalid"})
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		Date:      date,
		SlotIndex: *req.SlotIndex,
		Owner:     req.Owner,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// DELETE
// ======================================================

func (h *BookingHandler) Delete(c *gin.Context) {
	if _, err := h.delete.Execute(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.NoContent(c)
}
