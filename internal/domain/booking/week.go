package booking

import (
	"time"

	"cloud.google.com/go/civil"
)

const DaysPerWeek = 7

// Week is the 7-day window anchored at a Sunday.
type Week struct {
	Start civil.Date `json:"start"`
}

// WeekOf returns the week containing d, anchored at the most recent Sunday <= d.
func WeekOf(d civil.Date) Week {
	return Week{Start: d.AddDays(-int(weekday(d)))}
}

// Shift moves the week by n whole weeks.
func (w Week) Shift(n int) Week {
	return Week{Start: w.Start.AddDays(n * DaysPerWeek)}
}

// End is the first date after the week.
func (w Week) End() civil.Date {
	return w.Start.AddDays(DaysPerWeek)
}

func (w Week) Days() []civil.Date {
	days := make([]civil.Date, DaysPerWeek)
	for i := range days {
		days[i] = w.Start.AddDays(i)
	}
	return days
}

// DayIndex returns the position of d within the week, or -1.
func (w Week) DayIndex(d civil.Date) int {
	n := d.DaysSince(w.Start)
	if n < 0 || n >= DaysPerWeek {
		return -1
	}
	return n
}

func (w Week) Contains(d civil.Date) bool {
	return w.DayIndex(d) >= 0
}

// Label renders the week header, e.g. "Week of Jan 5".
func (w Week) Label() string {
	return "Week of " + w.Start.In(time.UTC).Format("Jan 2")
}

// DayLabel renders a column header, e.g. "Sun 1/5".
func DayLabel(d civil.Date) string {
	return d.In(time.UTC).Format("Mon 1/2")
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}
