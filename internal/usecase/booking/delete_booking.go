package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/weekly-signup/internal/audit"
	"github.com/BruksfildServices01/weekly-signup/internal/cache"
	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/metrics"
)

type DeleteBooking struct {
	repo    domain.Repository
	cache   cache.WeekCache
	audit   Auditor
	metrics *metrics.Metrics
}

func NewDeleteBooking(
	repo domain.Repository,
	weekCache cache.WeekCache,
	auditor Auditor,
	m *metrics.Metrics,
) *DeleteBooking {
	if weekCache == nil {
		weekCache = cache.Nop{}
	}
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &DeleteBooking{
		repo:    repo,
		cache:   weekCache,
		audit:   auditor,
		metrics: m,
	}
}

func (uc *DeleteBooking) Execute(
	ctx context.Context,
	id string,
) (domain.Booking, error) {

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Booking{}, &domain.ValidationError{Field: "id", Reason: "empty"}
	}

	gone, err := uc.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.metrics.Write("delete", "not_found")
		} else {
			uc.metrics.Write("delete", "error")
		}
		return domain.Booking{}, err
	}

	uc.cache.Invalidate(ctx, domain.WeekOf(gone.Date).Start)
	uc.metrics.Write("delete", "ok")

	uc.audit.Dispatch(audit.Event{
		Actor:    gone.Owner,
		Action:   audit.ActionBookingDeleted,
		Entity:   audit.EntityBooking,
		EntityID: gone.ID,
		Metadata: map[string]any{
			"date": gone.Date.String(),
			"slot": gone.SlotIndex,
		},
	})

	return gone, nil
}
