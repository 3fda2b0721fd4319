package grid

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

// Loader fetches the bookings of a week. booking.Endpoint satisfies it.
type Loader interface {
	List(ctx context.Context, weekStart civil.Date) ([]booking.Booking, error)
}

// Navigator owns the selected date and reloads the store when the week changes.
type Navigator struct {
	store  *Store
	loader Loader
	log    *zap.Logger

	mu     sync.Mutex
	anchor civil.Date
}

func NewNavigator(store *Store, loader Loader, anchor civil.Date, log *zap.Logger) *Navigator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Navigator{
		store:  store,
		loader: loader,
		log:    log,
		anchor: anchor,
	}
}

func (n *Navigator) Anchor() civil.Date {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.anchor
}

func (n *Navigator) Week() booking.Week {
	return booking.WeekOf(n.Anchor())
}

// MoveWeek shifts the selected date by exactly one week back (-1) or forward (+1).
func (n *Navigator) MoveWeek(ctx context.Context, direction int) error {
	if direction != -1 && direction != 1 {
		return &booking.ValidationError{Field: "direction", Reason: "must_be_plus_or_minus_one"}
	}

	n.mu.Lock()
	n.anchor = n.anchor.AddDays(direction * booking.DaysPerWeek)
	n.mu.Unlock()

	return n.Reload(ctx)
}

// Select jumps to the week containing date.
func (n *Navigator) Select(ctx context.Context, date civil.Date) error {
	if err := booking.ValidateDate(date); err != nil {
		return err
	}

	n.mu.Lock()
	n.anchor = date
	n.mu.Unlock()

	return n.Reload(ctx)
}

// Reload empties the store for the selected week and loads it afresh.
// Nothing from the previous week survives. A load finished after a newer
// navigation is discarded.
func (n *Navigator) Reload(ctx context.Context) error {
	week := n.Week()
	gen := n.store.Begin(week)

	bookings, err := n.loader.List(ctx, week.Start)
	if err != nil {
		n.log.Warn("week load failed", zap.String("week", week.Start.String()), zap.Error(err))
		if booking.IsTransport(err) {
			return err
		}
		return &booking.TransportError{Op: "list", Err: err}
	}

	if !n.store.Load(gen, bookings) {
		n.log.Debug("discarding load for superseded week", zap.String("week", week.Start.String()))
		return nil
	}

	n.log.Debug("week loaded", zap.String("week", week.Start.String()), zap.Int("bookings", len(bookings)))
	return nil
}
