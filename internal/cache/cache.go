package cache

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

// WeekCache holds the booking list of a week between writes.
// Implementations report misses, never errors: a broken cache must not fail a read.
//
// Every Invalidate bumps the week's version. Callers read Version before
// loading from storage and pass it to Set, which stores nothing if the week
// was invalidated in between, so a list read before a write never outlives it.
type WeekCache interface {
	Get(ctx context.Context, weekStart civil.Date) ([]booking.Booking, bool)
	Version(ctx context.Context, weekStart civil.Date) uint64
	Set(ctx context.Context, weekStart civil.Date, version uint64, bookings []booking.Booking)
	Invalidate(ctx context.Context, weekStart civil.Date)
}

// Nop never caches anything.
type Nop struct{}

func (Nop) Get(context.Context, civil.Date) ([]booking.Booking, bool) { return nil, false }
func (Nop) Version(context.Context, civil.Date) uint64 { return 0 }
func (Nop) Set(context.Context, civil.Date, uint64, []booking.Booking) {}
func (Nop) Invalidate(context.Context, civil.Date) {}

func clone(in []booking.Booking) []booking.Booking {
	if in == nil {
		return nil
	}
	out := make([]booking.Booking, len(in))
	copy(out, in)
	return out
}
