package booking

import (
	"sort"

	"cloud.google.com/go/civil"
)

// Range is a maximal run of same-owner bookings on one date.
// Key is taken from the first booking's ID so renderers can diff ranges.
type Range struct {
	Key   string     `json:"key"`
	Date  civil.Date `json:"date"`
	Start int        `json:"start"`
	End   int        `json:"end"`
	Owner string     `json:"owner"`
}

func (r Range) Len() int {
	return r.End - r.Start + 1
}

func (r Range) Contains(slotIndex int) bool {
	return slotIndex >= r.Start && slotIndex <= r.End
}

// MergeDay folds the bookings of a single date into ordered ranges.
// Bookings of other dates must be filtered out by the caller.
func MergeDay(bookings []Booking) []Range {
	if len(bookings) == 0 {
		return nil
	}

	day := make([]Booking, len(bookings))
	copy(day, bookings)
	sort.Slice(day, func(i, j int) bool {
		return day[i].SlotIndex < day[j].SlotIndex
	})

	ranges := make([]Range, 0, len(day))
	for _, b := range day {
		if n := len(ranges); n > 0 {
			last := &ranges[n-1]
			if last.Owner == b.Owner && b.SlotIndex == last.End+1 {
				last.End = b.SlotIndex
				continue
			}
		}

		ranges = append(ranges, Range{
			Key:   b.ID,
			Date:  b.Date,
			Start: b.SlotIndex,
			End:   b.SlotIndex,
			Owner: b.Owner,
		})
	}

	return ranges
}

// MergeWeek groups bookings per day of w and merges each day on its own,
// so a run never crosses midnight. Bookings outside w are ignored.
func MergeWeek(w Week, bookings []Booking) [DaysPerWeek][]Range {
	var perDay [DaysPerWeek][]Booking
	for _, b := range bookings {
		if i := w.DayIndex(b.Date); i >= 0 {
			perDay[i] = append(perDay[i], b)
		}
	}

	var out [DaysPerWeek][]Range
	for i, day := range perDay {
		out[i] = MergeDay(day)
	}
	return out
}

// Owners returns the distinct owners of bookings in first-seen order.
func Owners(bookings []Booking) []string {
	seen := make(map[string]struct{}, len(bookings))
	var out []string
	for _, b := range bookings {
		if _, ok := seen[b.Owner]; ok {
			continue
		}
		seen[b.Owner] = struct{}{}
		out = append(out, b.Owner)
	}
	return out
}
