package grid

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

var (
	monday  = civil.Date{Year: 2025, Month: 1, Day: 6}
	tuesday = monday.AddDays(1)
	week    = booking.WeekOf(monday)
)

// fakeEndpoint is an in-memory booking.Endpoint with call counters,
// error injection and an optional gate that holds Create calls.
type fakeEndpoint struct {
	mu      sync.Mutex
	byKey   map[booking.Key]booking.Booking
	seq     int
	creates int
	deletes int
	lists   int
	err     error

	gate    chan struct{}
	entered chan booking.Key
}

func newFakeEndpoint() *fakeEndpoint {
	return &fakeEndpoint{byKey: make(map[booking.Key]booking.Booking)}
}

// seed places a booking server-side only.
func (e *fakeEndpoint) seed(date civil.Date, slotIndex int, owner string) booking.Booking {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	b := booking.Booking{ID: fmt.Sprintf("seed-%d", e.seq), Date: date, SlotIndex: slotIndex, Owner: owner}
	e.byKey[b.Key()] = b
	return b
}

func (e *fakeEndpoint) drop(key booking.Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.byKey, key)
}

func (e *fakeEndpoint) counts() (creates, deletes, lists int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.creates, e.deletes, e.lists
}

func (e *fakeEndpoint) List(_ context.Context, weekStart civil.Date) ([]booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lists++
	if e.err != nil {
		return nil, e.err
	}

	w := booking.Week{Start: weekStart}
	var out []booking.Booking
	for _, b := range e.byKey {
		if w.Contains(b.Date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (e *fakeEndpoint) Create(ctx context.Context, date civil.Date, slotIndex int, owner string) (booking.Booking, error) {
	e.mu.Lock()
	e.creates++
	gate, entered := e.gate, e.entered
	e.mu.Unlock()

	key := booking.Key{Date: date, Slot: slotIndex}
	if entered != nil {
		entered <- key
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return booking.Booking{}, ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return booking.Booking{}, e.err
	}
	if _, taken := e.byKey[key]; taken {
		return booking.Booking{}, booking.ErrConflict
	}

	e.seq++
	b := booking.Booking{ID: fmt.Sprintf("bk-%d", e.seq), Date: date, SlotIndex: slotIndex, Owner: owner}
	e.byKey[key] = b
	return b, nil
}

func (e *fakeEndpoint) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.deletes++
	if e.err != nil {
		return e.err
	}
	for k, b := range e.byKey {
		if b.ID == id {
			delete(e.byKey, k)
			return nil
		}
	}
	return booking.ErrNotFound
}

// loaded returns a store holding whatever the endpoint has for the test week.
func loaded(e *fakeEndpoint) *Store {
	s := NewStore(week)
	gen := s.Begin(week)
	bookings, _ := e.List(context.Background(), week.Start)
	s.Load(gen, bookings)
	return s
}

func rangesOn(s *Store, d civil.Date) []booking.Range {
	snap := s.Snapshot()
	return snap.Ranges()[snap.Week.DayIndex(d)]
}
