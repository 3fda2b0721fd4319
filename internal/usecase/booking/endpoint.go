package booking

import (
	"context"

	"cloud.google.com/go/civil"

	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

// Local serves the interaction engine in-process, without HTTP.
type Local struct {
	list   *ListWeek
	create *CreateBooking
	delete *DeleteBooking
}

func NewLocal(list *ListWeek, create *CreateBooking, del *DeleteBooking) *Local {
	return &Local{list: list, create: create, delete: del}
}

func (l *Local) List(ctx context.Context, weekStart civil.Date) ([]domain.Booking, error) {
	_, bookings, err := l.list.Execute(ctx, weekStart)
	return bookings, err
}

func (l *Local) Create(ctx context.Context, date civil.Date, slotIndex int, owner string) (domain.Booking, error) {
	return l.create.Execute(ctx, CreateBookingInput{
		Date:      date,
		SlotIndex: slotIndex,
		Owner:     owner,
	})
}

func (l *Local) Delete(ctx context.Context, id string) error {
	_, err := l.delete.Execute(ctx, id)
	return err
}

var _ domain.Endpoint = (*Local)(nil)
