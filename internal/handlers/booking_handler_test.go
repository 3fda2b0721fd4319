package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/weekly-signup/internal/cache"
	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/dto"
	"github.com/BruksfildServices01/weekly-signup/internal/httperr"
	"github.com/BruksfildServices01/weekly-signup/internal/idgen"
	"github.com/BruksfildServices01/weekly-signup/internal/infra/repository"
	"github.com/BruksfildServices01/weekly-signup/internal/slot"
	ucBooking "github.com/BruksfildServices01/weekly-signup/internal/usecase/booking"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	repo := repository.NewBookingMemoryRepository()
	weekCache := cache.NewMemory(time.Minute)

	h := NewBookingHandler(
		ucBooking.NewListWeek(repo, weekCache, nil),
		ucBooking.NewCreateBooking(repo, weekCache, idgen.NewSequence("bk"), nil, nil),
		ucBooking.NewDeleteBooking(repo, weekCache, nil, nil),
		"UTC",
		nil,
	)

	r := gin.New()
	r.GET("/api/slots", Slots)
	r.GET("/api/bookings", h.List)
	r.GET("/api/bookings/grid", h.Grid)
	r.POST("/api/bookings", h.Create)
	r.DELETE("/api/bookings/:id", h.Delete)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func book(t *testing.T, r http.Handler, date string, slotIndex int, owner string) domain.Booking {
	t.Helper()
	body := `{"date":"` + date + `","slot_index":` + itoa(slotIndex) + `,"owner":"` + owner + `"}`
	w := send(r, http.MethodPost, "/api/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.Booking](t, w)
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}

func TestBookingHandler_CreateAndConflict(t *testing.T) {
	r := newRouter()

	b := book(t, r, "2025-01-06", 19, " Alice ")
	assert.Equal(t, "bk-1", b.ID)
	assert.Equal(t, "Alice", b.Owner)
	assert.Equal(t, "2025-01-06", b.Date.String())

	w := send(r, http.MethodPost, "/api/bookings", `{"date":"2025-01-06","slot_index":19,"owner":"Bob"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_already_booked", decode[httperr.HTTPError](t, w).Code)
}

func TestBookingHandler_CreateValidation(t *testing.T) {
	r := newRouter()

	cases := []struct {
		name string
		body string
		code string
	}{
		{"missing slot", `{"date":"2025-01-06","owner":"a"}`, "invalid_request"},
		{"malformed json", `{"date":`, "invalid_request"},
		{"bad date", `{"date":"06/01/2025","slot_index":1,"owner":"a"}`, "invalid_date"},
		{"slot out of range", `{"date":"2025-01-06","slot_index":48,"owner":"a"}`, "invalid_slot_index"},
		{"blank owner", `{"date":"2025-01-06","slot_index":1,"owner":"   "}`, "invalid_owner"},
		{"long owner", `{"date":"2025-01-06","slot_index":1,"owner":"` + strings.Repeat("x", 101) + `"}`, "invalid_owner"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := send(r, http.MethodPost, "/api/bookings", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, decode[httperr.HTTPError](t, w).Code)
		})
	}
}

func TestBookingHandler_ListWeek(t *testing.T) {
	r := newRouter()
	book(t, r, "2025-01-06", 3, "Alice")
	book(t, r, "2025-01-12", 3, "Bob") // next week

	w := send(r, http.MethodGet, "/api/bookings?week=2025-01-08", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.WeekResponse](t, w)
	assert.Equal(t, "2025-01-05", resp.WeekStart.String())
	assert.Equal(t, "Week of Jan 5", resp.Label)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "Sun 1/5", resp.Days[0].Label)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "Alice", resp.Bookings[0].Owner)
}

func TestBookingHandler_ListEmptyWeekRendersArray(t *testing.T) {
	r := newRouter()

	w := send(r, http.MethodGet, "/api/bookings?week=2030-06-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookings":[]`)
}

func TestBookingHandler_ListDefaultsToCurrentWeek(t *testing.T) {
	r := newRouter()

	w := send(r, http.MethodGet, "/api/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.WeekResponse](t, w)
	assert.True(t, resp.WeekStart.IsValid())
}

func TestBookingHandler_ListBadWeek(t *testing.T) {
	r := newRouter()

	w := send(r, http.MethodGet, "/api/bookings?week=someday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_week", decode[httperr.HTTPError](t, w).Code)
}

func TestBookingHandler_Grid(t *testing.T) {
	r := newRouter()
	book(t, r, "2025-01-06", 10, "Alice")
	book(t, r, "2025-01-06", 11, "Alice")
	book(t, r, "2025-01-06", 12, "Bob")

	w := send(r, http.MethodGet, "/api/bookings/grid?week=2025-01-06&actor=Alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.GridResponse](t, w)
	assert.Equal(t, []string{"Alice", "Bob"}, resp.Actors)
	require.Len(t, resp.Days, 7)

	monday := resp.Days[1]
	assert.Equal(t, "Mon 1/6", monday.Label)
	require.Len(t, monday.Ranges, 2)

	assert.Equal(t, 10, monday.Ranges[0].Start)
	assert.Equal(t, 11, monday.Ranges[0].End)
	assert.Equal(t, "5:00 AM", monday.Ranges[0].StartLabel)
	assert.Equal(t, "5:30 AM", monday.Ranges[0].EndLabel)
	assert.True(t, monday.Ranges[0].Mine)

	assert.Equal(t, "Bob", monday.Ranges[1].Owner)
	assert.False(t, monday.Ranges[1].Mine)

	assert.Empty(t, resp.Days[0].Ranges)
}

func TestBookingHandler_Delete(t *testing.T) {
	r := newRouter()
	b := book(t, r, "2025-01-06", 5, "Alice")

	w := send(r, http.MethodDelete, "/api/bookings/"+b.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(r, http.MethodDelete, "/api/bookings/"+b.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking_not_found", decode[httperr.HTTPError](t, w).Code)

	w = send(r, http.MethodGet, "/api/bookings?week=2025-01-06", "")
	assert.Empty(t, decode[dto.WeekResponse](t, w).Bookings)
}

func TestSlots(t *testing.T) {
	r := newRouter()

	w := send(r, http.MethodGet, "/api/slots", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Data  []slot.Slot `json:"data"`
		Total int         `json:"total"`
	}](t, w)
	assert.Equal(t, 48, resp.Total)
	assert.Equal(t, "9:30 AM", resp.Data[19].Label)
	assert.Equal(t, "12:00 AM", resp.Data[0].Label)
}
