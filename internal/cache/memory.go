package cache

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

type entry struct {
	storedAt time.Time
	bookings []booking.Booking
}

// Memory is a process-local WeekCache with a fixed time-to-live.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	entries  map[civil.Date]entry
	versions map[civil.Date]uint64
}

type MemoryOption func(*Memory)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[civil.Date]entry),
		versions: make(map[civil.Date]uint64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, weekStart civil.Date) ([]booking.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[weekStart]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.storedAt) >= m.ttl {
		delete(m.entries, weekStart)
		return nil, false
	}
	return clone(e.bookings), true
}

func (m *Memory) Version(_ context.Context, weekStart civil.Date) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[weekStart]
}

func (m *Memory) Set(_ context.Context, weekStart civil.Date, version uint64, bookings []booking.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.versions[weekStart] != version {
		return
	}
	m.entries[weekStart] = entry{
		storedAt: m.now(),
		bookings: clone(bookings),
	}
}

func (m *Memory) Invalidate(_ context.Context, weekStart civil.Date) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, weekStart)
	m.versions[weekStart]++
}
