package repository

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
)

// BookingMemoryRepository keeps bookings in process memory. The check and
// the insert happen under one lock, giving the same guarantee as the unique index.
type BookingMemoryRepository struct {
	mu     sync.Mutex
	byID   map[string]domain.Booking
	bySlot map[domain.Key]string
}

func NewBookingMemoryRepository() *BookingMemoryRepository {
	return &BookingMemoryRepository{
		byID:   make(map[string]domain.Booking),
		bySlot: make(map[domain.Key]string),
	}
}

func (r *BookingMemoryRepository) ListBetween(
	_ context.Context,
	from civil.Date,
	to civil.Date,
) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Booking, 0)
	for _, b := range r.byID {
		if !b.Date.Before(from) && b.Date.Before(to) {
			out = append(out, b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].SlotIndex < out[j].SlotIndex
	})
	return out, nil
}

func (r *BookingMemoryRepository) Create(_ context.Context, b domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlot[b.Key()]; taken {
		return domain.ErrConflict
	}
	if _, taken := r.byID[b.ID]; taken {
		return domain.ErrConflict
	}

	r.byID[b.ID] = b
	r.bySlot[b.Key()] = b.ID
	return nil
}

func (r *BookingMemoryRepository) Delete(_ context.Context, id string) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}

	delete(r.byID, id)
	delete(r.bySlot, b.Key())
	return b, nil
}

var _ domain.Repository = (*BookingMemoryRepository)(nil)
