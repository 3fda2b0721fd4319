package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out booking identifiers.
type Generator interface {
	NewID() string
}

type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence yields prefix-1, prefix-2, ... and is safe for concurrent use.
type Sequence struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}
