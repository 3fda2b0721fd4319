package grid

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

// Outcome reports what a toggle did to the slot.
type Outcome int

const (
	// Rejected: the request failed validation and nothing was sent.
	Rejected Outcome = iota
	// NoOp: the slot belongs to someone else.
	NoOp
	Created
	Deleted
	// AlreadyGone: the booking was removed concurrently; the slot is free.
	AlreadyGone
	// Resynced: another actor claimed the slot first; the cell was refreshed.
	Resynced
	// Collapsed: queued toggles cancelled each other out.
	Collapsed
	// Stale: the week changed while the request was in flight.
	Stale
	// Failed: the endpoint could not be reached; the store is unchanged.
	Failed
)

var outcomeNames = map[Outcome]string{
	Rejected:    "rejected",
	NoOp:        "noop",
	Created:     "created",
	Deleted:     "deleted",
	AlreadyGone: "already_gone",
	Resynced:    "resynced",
	Collapsed:   "collapsed",
	Stale:       "stale",
	Failed:      "failed",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Toggler is the single entry point for clicks and drag steps alike.
type Toggler interface {
	Toggle(ctx context.Context, date civil.Date, slotIndex int, actor string) (Outcome, error)
}

// flight marks a cell with a request in progress. Toggles arriving meanwhile
// fold into a single follow-up.
type flight struct {
	next *followUp
}

type followUp struct {
	actor    string
	requests int
	done     chan struct{}
	outcome  Outcome
	err      error
}

// Controller applies the add/remove policy against the endpoint and keeps
// the store in line with what the endpoint confirmed.
type Controller struct {
	store    *Store
	endpoint booking.Endpoint
	log      *zap.Logger

	mu       sync.Mutex
	inflight map[booking.Key]*flight
}

func NewController(store *Store, endpoint booking.Endpoint, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:    store,
		endpoint: endpoint,
		log:      log,
		inflight: make(map[booking.Key]*flight),
	}
}

// Toggle claims an empty slot for actor, or releases it if actor holds it.
// Slots held by others are left alone. It returns once the endpoint answered.
//
// While a toggle for the same cell is in flight, further calls wait and are
// merged into one follow-up run for the most recent actor; an even number of
// queued toggles by that actor cancels out. A queued toggle from a different
// actor supersedes the ones already waiting: their requests are dropped and
// every waiter on the cell receives the outcome of the latest actor's run.
func (c *Controller) Toggle(ctx context.Context, date civil.Date, slotIndex int, actor string) (Outcome, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return Rejected, &booking.ValidationError{Field: "owner", Reason: "empty"}
	}
	if err := booking.ValidateSlot(slotIndex); err != nil {
		return Rejected, err
	}
	if !c.store.Week().Contains(date) {
		return Rejected, &booking.ValidationError{Field: "date", Reason: "outside_week"}
	}

	key := booking.Key{Date: date, Slot: slotIndex}

	c.mu.Lock()
	if f, busy := c.inflight[key]; busy {
		fu := f.next
		if fu == nil {
			fu = &followUp{done: make(chan struct{})}
			f.next = fu
		}
		if fu.actor != actor {
			// last writer wins; earlier actors' queued toggles are dropped
			fu.actor = actor
			fu.requests = 0
		}
		fu.requests++
		c.mu.Unlock()

		c.log.Debug("toggle queued", zap.Stringer("cell", key), zap.String("actor", actor))

		select {
		case <-fu.done:
			return fu.outcome, fu.err
		case <-ctx.Done():
			return Failed, ctx.Err()
		}
	}

	f := &flight{}
	c.inflight[key] = f
	c.mu.Unlock()

	outcome, err := c.apply(ctx, key, actor)
	c.drain(ctx, key, f)
	return outcome, err
}

// drain runs queued follow-ups until none is left, then clears the marker.
func (c *Controller) drain(ctx context.Context, key booking.Key, f *flight) {
	detached := context.WithoutCancel(ctx)

	for {
		c.mu.Lock()
		fu := f.next
		if fu == nil {
			delete(c.inflight, key)
			c.mu.Unlock()
			return
		}
		f.next = nil
		c.mu.Unlock()

		if fu.requests%2 == 0 {
			fu.outcome = Collapsed
		} else {
			fu.outcome, fu.err = c.apply(detached, key, fu.actor)
		}
		close(fu.done)
	}
}

func (c *Controller) apply(ctx context.Context, key booking.Key, actor string) (Outcome, error) {
	existing, gen, ok := c.store.Lookup(key.Date, key.Slot)

	switch {
	case !ok:
		return c.create(ctx, key, actor, gen)
	case existing.Owner == actor:
		return c.delete(ctx, existing, gen)
	default:
		c.log.Debug("toggle ignored, slot owned by another actor",
			zap.Stringer("cell", key),
			zap.String("actor", actor),
			zap.String("owner", existing.Owner),
		)
		return NoOp, nil
	}
}

func (c *Controller) create(ctx context.Context, key booking.Key, actor string, gen uint64) (Outcome, error) {
	b, err := c.endpoint.Create(ctx, key.Date, key.Slot, actor)
	switch {
	case err == nil:
		if !c.store.Put(gen, b) {
			return Stale, nil
		}
		c.log.Info("booking created", zap.Stringer("cell", key), zap.String("owner", actor), zap.String("id", b.ID))
		return Created, nil

	case errors.Is(err, booking.ErrConflict):
		c.log.Info("slot taken concurrently, resyncing", zap.Stringer("cell", key), zap.String("actor", actor))
		return c.resync(ctx, key, gen)

	case booking.IsValidation(err):
		return Rejected, err

	default:
		return c.fail("create", key, err)
	}
}

func (c *Controller) delete(ctx context.Context, existing booking.Booking, gen uint64) (Outcome, error) {
	err := c.endpoint.Delete(ctx, existing.ID)
	switch {
	case err == nil:
		if !c.store.Remove(gen, existing) {
			return Stale, nil
		}
		c.log.Info("booking deleted", zap.Stringer("cell", existing.Key()), zap.String("id", existing.ID))
		return Deleted, nil

	case errors.Is(err, booking.ErrNotFound):
		if !c.store.Remove(gen, existing) {
			return Stale, nil
		}
		return AlreadyGone, nil

	default:
		return c.fail("delete", existing.Key(), err)
	}
}

// resync replaces the cell with what the endpoint currently holds.
func (c *Controller) resync(ctx context.Context, key booking.Key, gen uint64) (Outcome, error) {
	bookings, err := c.endpoint.List(ctx, booking.WeekOf(key.Date).Start)
	if err != nil {
		return c.fail("resync", key, err)
	}

	var current *booking.Booking
	for i := range bookings {
		if bookings[i].Key() == key {
			current = &bookings[i]
			break
		}
	}

	if !c.store.Replace(gen, key, current) {
		return Stale, nil
	}
	return Resynced, nil
}

func (c *Controller) fail(op string, key booking.Key, err error) (Outcome, error) {
	c.log.Warn("toggle failed", zap.String("op", op), zap.Stringer("cell", key), zap.Error(err))

	var te *booking.TransportError
	if errors.As(err, &te) {
		return Failed, err
	}
	return Failed, &booking.TransportError{Op: op, Err: err}
}

var _ Toggler = (*Controller)(nil)
