package grid

import (
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

// Snapshot is an immutable copy of the store contents.
type Snapshot struct {
	Generation uint64
	Week       booking.Week
	Loaded     bool
	Bookings   []booking.Booking
}

// Ranges derives the merged display ranges, one list per day of the week.
func (s Snapshot) Ranges() [booking.DaysPerWeek][]booking.Range {
	return booking.MergeWeek(s.Week, s.Bookings)
}

// Owners lists the distinct owners in the loaded week.
func (s Snapshot) Owners() []string {
	return booking.Owners(s.Bookings)
}

// Store is the in-memory view of the selected week.
//
// Every write carries the generation it was based on; writes from an older
// generation (a week that is no longer selected) are dropped. Writes that land
// between Begin and Load are newer than the list being loaded and survive it.
// Subscribers are called synchronously after each change and must not write
// to the store.
type Store struct {
	mu     sync.RWMutex
	gen    uint64
	week   booking.Week
	loaded bool
	cells  map[booking.Key]booking.Booking
	// cells written in the current generation before Load
	dirty map[booking.Key]struct{}

	notifyMu sync.Mutex
	subs     map[int]func(Snapshot)
	nextSub  int
}

func NewStore(week booking.Week) *Store {
	return &Store{
		week:  week,
		cells: make(map[booking.Key]booking.Booking),
		subs:  make(map[int]func(Snapshot)),
	}
}

// Begin switches the store to week, discarding everything it held.
// The returned generation must be passed to Load.
func (s *Store) Begin(week booking.Week) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.week = week
	s.loaded = false
	s.cells = make(map[booking.Key]booking.Booking)
	s.dirty = nil
	s.mu.Unlock()

	s.notify()
	return gen
}

// Load fills the store for generation gen. Duplicate cells keep the first
// record; records outside the week are ignored. Cells written since Begin
// keep their current state.
func (s *Store) Load(gen uint64, bookings []booking.Booking) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}

	cells := make(map[booking.Key]booking.Booking, len(bookings))
	for _, b := range bookings {
		if !s.week.Contains(b.Date) {
			continue
		}
		if _, dup := cells[b.Key()]; dup {
			continue
		}
		cells[b.Key()] = b
	}
	for key := range s.dirty {
		if b, ok := s.cells[key]; ok {
			cells[key] = b
		} else {
			delete(cells, key)
		}
	}
	s.cells = cells
	s.dirty = nil
	s.loaded = true
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Store) Week() booking.Week {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week
}

// Lookup returns the booking at the cell and the generation it was read at.
func (s *Store) Lookup(date civil.Date, slotIndex int) (booking.Booking, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.cells[booking.Key{Date: date, Slot: slotIndex}]
	return b, s.gen, ok
}

// Put records a confirmed booking.
func (s *Store) Put(gen uint64, b booking.Booking) bool {
	return s.mutate(gen, func() {
		s.cells[b.Key()] = b
		s.touch(b.Key())
	})
}

// Remove drops b if the cell still holds it.
func (s *Store) Remove(gen uint64, b booking.Booking) bool {
	return s.mutate(gen, func() {
		if cur, ok := s.cells[b.Key()]; ok && cur.ID == b.ID {
			delete(s.cells, b.Key())
			s.touch(b.Key())
		}
	})
}

// Replace overwrites one cell with authoritative state; nil clears it.
func (s *Store) Replace(gen uint64, key booking.Key, b *booking.Booking) bool {
	return s.mutate(gen, func() {
		s.touch(key)
		if b == nil {
			delete(s.cells, key)
			return
		}
		s.cells[key] = *b
	})
}

// touch must be called with mu held.
func (s *Store) touch(key booking.Key) {
	if s.loaded {
		return
	}
	if s.dirty == nil {
		s.dirty = make(map[booking.Key]struct{})
	}
	s.dirty[key] = struct{}{}
}

func (s *Store) mutate(gen uint64, fn func()) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	fn()
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]booking.Booking, 0, len(s.cells))
	for _, b := range s.cells {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].SlotIndex < out[j].SlotIndex
	})

	return Snapshot{
		Generation: s.gen,
		Week:       s.week,
		Loaded:     s.loaded,
		Bookings:   out,
	}
}

// Subscribe registers fn for change notifications and returns its cancel func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.subs, id)
	}
}

// notify takes the snapshot under notifyMu so subscribers never observe
// an older state after a newer one.
func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if len(s.subs) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}
