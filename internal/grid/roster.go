package grid

import (
	"strings"
	"sync"
)

// Roster is the list of identities the user can act as: everyone seen in
// the loaded week plus names typed in by hand. It is never persisted.
type Roster struct {
	mu       sync.RWMutex
	seen     []string
	manual   []string
	selected string
}

func NewRoster() *Roster {
	return &Roster{}
}

// Attach keeps the seen owners in step with the store.
func (r *Roster) Attach(s *Store) func() {
	r.seed(s.Snapshot().Owners())
	return s.Subscribe(func(snap Snapshot) {
		r.seed(snap.Owners())
	})
}

func (r *Roster) seed(owners []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = owners
}

// Add registers a manual name and selects it. Blank names are ignored.
func (r *Roster) Add(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !contains(r.manual, name) {
		r.manual = append(r.manual, name)
	}
	r.selected = name
	return name, true
}

func (r *Roster) Select(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = strings.TrimSpace(name)
}

func (r *Roster) Selected() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// Names lists seen owners first, then manual names not already listed.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.seen)+len(r.manual))
	out = append(out, r.seen...)
	for _, m := range r.manual {
		if !contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
