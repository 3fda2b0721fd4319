package booking

import (
	"context"

	"cloud.google.com/go/civil"
)

// Repository is the storage port of the server side.
type Repository interface {
	// ListBetween returns bookings with from <= date < to ordered by date, slot.
	ListBetween(
		ctx context.Context,
		from civil.Date,
		to civil.Date,
	) ([]Booking, error)

	// Create inserts b atomically, failing with ErrConflict when the slot is held.
	Create(
		ctx context.Context,
		b Booking,
	) error

	// Delete removes the booking, failing with ErrNotFound when it is gone.
	Delete(
		ctx context.Context,
		id string,
	) (Booking, error)
}

// Endpoint is the persistence/query surface the interaction engine talks to.
type Endpoint interface {
	List(ctx context.Context, weekStart civil.Date) ([]Booking, error)
	Create(ctx context.Context, date civil.Date, slotIndex int, owner string) (Booking, error)
	Delete(ctx context.Context, id string) error
}
