package cache

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

var week = civil.Date{Year: 2025, Month: 1, Day: 5}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sample() []booking.Booking {
	return []booking.Booking{{ID: "1", Date: week.AddDays(1), SlotIndex: 18, Owner: "Alice"}}
}

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
	m := NewMemory(30*time.Second, WithClock(clock.Now))

	m.Set(ctx, week, 0, sample())

	got, ok := m.Get(ctx, week)
	require.True(t, ok)
	assert.Equal(t, sample(), got)

	clock.Advance(29 * time.Second)
	_, ok = m.Get(ctx, week)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = m.Get(ctx, week)
	assert.False(t, ok)
}

func TestMemory_InvalidateIsPerWeek(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	next := week.AddDays(7)

	m.Set(ctx, week, 0, sample())
	m.Set(ctx, next, 0, nil)
	m.Invalidate(ctx, week)

	_, ok := m.Get(ctx, week)
	assert.False(t, ok)
	_, ok = m.Get(ctx, next)
	assert.True(t, ok)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	in := sample()
	m.Set(ctx, week, 0, in)

	in[0].Owner = "Mallory"
	got, _ := m.Get(ctx, week)
	got[0].SlotIndex = 0

	again, _ := m.Get(ctx, week)
	assert.Equal(t, sample(), again)
}

func TestMemory_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	v := m.Version(ctx, week)
	m.Invalidate(ctx, week)
	m.Set(ctx, week, v, sample())

	_, ok := m.Get(ctx, week)
	assert.False(t, ok, "list read before the write must not be cached")

	m.Set(ctx, week, m.Version(ctx, week), sample())
	_, ok = m.Get(ctx, week)
	assert.True(t, ok)
}
