package grid

import (
	"context"
	"math"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/sourcegraph/conc"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// ActorSource supplies the identity a gesture acts as.
type ActorSource interface {
	Selected() string
}

// Result is reported once per dispatched toggle.
type Result struct {
	Cell    booking.Key
	Outcome Outcome
	Err     error
}

// DragSession turns pointer events into toggle calls. Each cell is toggled
// at most once per gesture, however often the pointer re-enters it.
// Toggles run in the background; Wait blocks until all have resolved.
type DragSession struct {
	toggler  Toggler
	actors   ActorSource
	onResult func(Result)

	mu      sync.Mutex
	state   State
	visited map[booking.Key]struct{}

	wg conc.WaitGroup
}

type DragOption func(*DragSession)

// OnResult registers a callback for toggle results, e.g. to surface failures.
func OnResult(fn func(Result)) DragOption {
	return func(s *DragSession) {
		s.onResult = fn
	}
}

func NewDragSession(toggler Toggler, actors ActorSource, opts ...DragOption) *DragSession {
	s := &DragSession{
		toggler: toggler,
		actors:  actors,
		visited: make(map[booking.Key]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DragSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PointerDown starts a new gesture and toggles the cell under the pointer.
func (s *DragSession) PointerDown(ctx context.Context, date civil.Date, slotIndex int) {
	s.mu.Lock()
	s.state = Dragging
	s.visited = make(map[booking.Key]struct{})
	fire := s.visit(booking.Key{Date: date, Slot: slotIndex})
	s.mu.Unlock()

	if fire {
		s.dispatch(ctx, date, slotIndex)
	}
}

// PointerEnter toggles the cell if a gesture is active and the cell is new to it.
func (s *DragSession) PointerEnter(ctx context.Context, date civil.Date, slotIndex int) {
	s.mu.Lock()
	fire := s.state == Dragging && s.visit(booking.Key{Date: date, Slot: slotIndex})
	s.mu.Unlock()

	if fire {
		s.dispatch(ctx, date, slotIndex)
	}
}

func (s *DragSession) PointerUp() {
	s.end()
}

// PointerLeave fires when the pointer leaves the grid, not a single cell.
func (s *DragSession) PointerLeave() {
	s.end()
}

// Wait blocks until every toggle dispatched so far has resolved.
func (s *DragSession) Wait() {
	s.wg.Wait()
}

func (s *DragSession) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Idle
	s.visited = make(map[booking.Key]struct{})
}

// visit must be called with mu held.
func (s *DragSession) visit(key booking.Key) bool {
	if _, seen := s.visited[key]; seen {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

func (s *DragSession) dispatch(ctx context.Context, date civil.Date, slotIndex int) {
	actor := s.actors.Selected()

	s.wg.Go(func() {
		outcome, err := s.toggler.Toggle(ctx, date, slotIndex, actor)
		if s.onResult != nil {
			s.onResult(Result{
				Cell:    booking.Key{Date: date, Slot: slotIndex},
				Outcome: outcome,
				Err:     err,
			})
		}
	})
}

// SlotAt maps a vertical offset inside a rendered range to the slot under it.
// Offsets outside the box clamp to the range ends.
func SlotAt(r booking.Range, offset, slotHeight float64) int {
	if slotHeight <= 0 {
		return r.Start
	}

	idx := r.Start + int(math.Floor(offset/slotHeight))
	if idx < r.Start {
		return r.Start
	}
	if idx > r.End {
		return r.End
	}
	return idx
}
