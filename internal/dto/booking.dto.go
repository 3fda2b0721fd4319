package dto

import (
	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/slot"
)

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	Date      string `json:"date" binding:"required"`
	SlotIndex *int   `json:"slot_index" binding:"required"`
	Owner     string `json:"owner"`
}

// ======================================================
// RESPONSES
// ======================================================

type DayHeader struct {
	Date  civil.Date `json:"date"`
	Label string     `json:"label"`
}

type WeekResponse struct {
	WeekStart civil.Date        `json:"week_start"`
	Label     string            `json:"label"`
	Days      []DayHeader       `json:"days"`
	Bookings  []booking.Booking `json:"bookings"`
}

type GridRange struct {
	booking.Range
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
	Mine       bool   `json:"mine"`
}

type GridDay struct {
	DayHeader
	Ranges []GridRange `json:"ranges"`
}

type GridResponse struct {
	WeekStart civil.Date `json:"week_start"`
	Label     string     `json:"label"`
	Days      []GridDay  `json:"days"`
	Actors    []string   `json:"actors"`
}

// ======================================================
// BUILDERS
// ======================================================

func Headers(w booking.Week) []DayHeader {
	days := w.Days()
	out := make([]DayHeader, len(days))
	for i, d := range days {
		out[i] = DayHeader{Date: d, Label: booking.DayLabel(d)}
	}
	return out
}

func NewWeekResponse(w booking.Week, bookings []booking.Booking) WeekResponse {
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	return WeekResponse{
		WeekStart: w.Start,
		Label:     w.Label(),
		Days:      Headers(w),
		Bookings:  bookings,
	}
}

// NewGridResponse merges the week into display ranges; ranges owned by
// actor are flagged as mine.
func NewGridResponse(w booking.Week, bookings []booking.Booking, actor string) GridResponse {
	merged := booking.MergeWeek(w, bookings)
	headers := Headers(w)

	days := make([]GridDay, len(headers))
	for i, h := range headers {
		ranges := make([]GridRange, 0, len(merged[i]))
		for _, r := range merged[i] {
			ranges = append(ranges, GridRange{
				Range:      r,
				StartLabel: slot.Label(r.Start),
				EndLabel:   slot.Label(r.End),
				Mine:       actor != "" && r.Owner == actor,
			})
		}
		days[i] = GridDay{DayHeader: h, Ranges: ranges}
	}

	actors := booking.Owners(bookings)
	if actors == nil {
		actors = []string{}
	}

	return GridResponse{
		WeekStart: w.Start,
		Label:     w.Label(),
		Days:      days,
		Actors:    actors,
	}
}
