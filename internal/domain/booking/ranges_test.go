package booking

import (
	"fmt"
	"math/rand"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/weekly-signup/internal/slot"
)

var monday = civil.Date{Year: 2025, Month: 1, Day: 6}

func day(owners map[int]string) []Booking {
	var out []Booking
	for s, o := range owners {
		out = append(out, Booking{
			ID:        fmt.Sprintf("b-%02d", s),
			Date:      monday,
			SlotIndex: s,
			Owner:     o,
		})
	}
	return out
}

func TestMergeDay(t *testing.T) {
	tests := []struct {
		name   string
		owners map[int]string
		want   []Range
	}{
		{
			name:   "empty",
			owners: nil,
			want:   nil,
		},
		{
			name:   "single",
			owners: map[int]string{18: "Alice"},
			want:   []Range{{Key: "b-18", Date: monday, Start: 18, End: 18, Owner: "Alice"}},
		},
		{
			name:   "adjacent same owner",
			owners: map[int]string{18: "Alice", 19: "Alice", 20: "Alice"},
			want:   []Range{{Key: "b-18", Date: monday, Start: 18, End: 20, Owner: "Alice"}},
		},
		{
			name:   "gap splits",
			owners: map[int]string{18: "Alice", 20: "Alice"},
			want: []Range{
				{Key: "b-18", Date: monday, Start: 18, End: 18, Owner: "Alice"},
				{Key: "b-20", Date: monday, Start: 20, End: 20, Owner: "Alice"},
			},
		},
		{
			name:   "owner change splits",
			owners: map[int]string{18: "Alice", 19: "Bob", 20: "Alice"},
			want: []Range{
				{Key: "b-18", Date: monday, Start: 18, End: 18, Owner: "Alice"},
				{Key: "b-19", Date: monday, Start: 19, End: 19, Owner: "Bob"},
				{Key: "b-20", Date: monday, Start: 20, End: 20, Owner: "Alice"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeDay(day(tt.owners)))
		})
	}
}

func TestMergeDay_DoesNotReorderInput(t *testing.T) {
	in := []Booking{
		{ID: "b", Date: monday, SlotIndex: 5, Owner: "A"},
		{ID: "a", Date: monday, SlotIndex: 4, Owner: "A"},
	}
	got := MergeDay(in)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, "b", in[0].ID)
}

func TestMergeDay_CoversExactlyTheBookedSlots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	owners := []string{"A", "B", "C"}

	for iter := 0; iter < 200; iter++ {
		booked := map[int]string{}
		for s := 0; s < slot.PerDay; s++ {
			if rng.Intn(3) > 0 {
				booked[s] = owners[rng.Intn(len(owners))]
			}
		}

		ranges := MergeDay(day(booked))

		covered := map[int]string{}
		prevEnd := -1
		for _, r := range ranges {
			require.Greater(t, r.Start, prevEnd, "ranges overlap or are unordered")
			prevEnd = r.End
			for s := r.Start; s <= r.End; s++ {
				covered[s] = r.Owner
			}
		}
		assert.Equal(t, booked, covered)

		// adjacency: same owner neighbours share a range, others never do.
		rangeOf := map[int]int{}
		for i, r := range ranges {
			for s := r.Start; s <= r.End; s++ {
				rangeOf[s] = i
			}
		}
		for s := 0; s < slot.PerDay-1; s++ {
			a, okA := booked[s]
			b, okB := booked[s+1]
			if !okA || !okB {
				continue
			}
			if a == b {
				assert.Equal(t, rangeOf[s], rangeOf[s+1])
			} else {
				assert.NotEqual(t, rangeOf[s], rangeOf[s+1])
			}
		}
	}
}

func TestMergeWeek_NoCrossDayMerge(t *testing.T) {
	w := WeekOf(monday)
	tuesday := monday.AddDays(1)

	got := MergeWeek(w, []Booking{
		{ID: "x", Date: monday, SlotIndex: 47, Owner: "A"},
		{ID: "y", Date: tuesday, SlotIndex: 0, Owner: "A"},
		{ID: "z", Date: monday.AddDays(14), SlotIndex: 3, Owner: "A"},
	})

	assert.Equal(t, []Range{{Key: "x", Date: monday, Start: 47, End: 47, Owner: "A"}}, got[1])
	assert.Equal(t, []Range{{Key: "y", Date: tuesday, Start: 0, End: 0, Owner: "A"}}, got[2])
	for _, i := range []int{0, 3, 4, 5, 6} {
		assert.Empty(t, got[i])
	}
}

func TestOwners(t *testing.T) {
	got := Owners([]Booking{
		{Owner: "Bob"}, {Owner: "Alice"}, {Owner: "Bob"},
	})
	assert.Equal(t, []string{"Bob", "Alice"}, got)
}
