package slot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PerDay is the number of half-hour slots in a day.
const PerDay = 48

// Minutes is the length of one slot.
const Minutes = 30

type Slot struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// All returns the 48 slots of a day in order.
func All() []Slot {
	out := make([]Slot, PerDay)
	for i := range out {
		out[i] = Slot{Index: i, Label: Label(i)}
	}
	return out
}

func Valid(index int) bool {
	return index >= 0 && index < PerDay
}

// Clock returns the wall-clock start of the slot.
func Clock(index int) (hour, minute int) {
	return index / 2, (index % 2) * Minutes
}

// Label renders the slot start on a 12-hour clock, e.g. "9:30 AM".
func Label(index int) string {
	hour, minute := Clock(index)

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}

	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour12, minute, ampm)
}

// Index is the inverse of Clock. Minutes are floored to the slot boundary.
func Index(hour, minute int) (int, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*2 + minute/Minutes, true
}

// Parse accepts either a slot index ("19") or a slot label ("9:30 AM").
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)

	if i, err := strconv.Atoi(s); err == nil {
		if !Valid(i) {
			return 0, fmt.Errorf("slot %d out of range 0..%d", i, PerDay-1)
		}
		return i, nil
	}

	t, err := time.Parse("3:04 PM", strings.ToUpper(s))
	if err != nil {
		return 0, fmt.Errorf("unrecognized slot %q", s)
	}
	if t.Minute()%Minutes != 0 {
		return 0, fmt.Errorf("%q is not on a slot boundary", s)
	}
	i, _ := Index(t.Hour(), t.Minute())
	return i, nil
}
