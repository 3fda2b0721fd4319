package booking

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/audit"
	"github.com/BruksfildServices01/weekly-signup/internal/cache"
	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/idgen"
	"github.com/BruksfildServices01/weekly-signup/internal/metrics"
)

// Auditor is satisfied by *audit.Dispatcher.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Date      civil.Date
	SlotIndex int
	Owner     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	cache   cache.WeekCache
	ids     idgen.Generator
	audit   Auditor
	metrics *metrics.Metrics
}

func NewCreateBooking(
	repo domain.Repository,
	weekCache cache.WeekCache,
	ids idgen.Generator,
	auditor Auditor,
	m *metrics.Metrics,
) *CreateBooking {
	if weekCache == nil {
		weekCache = cache.Nop{}
	}
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &CreateBooking{
		repo:    repo,
		cache:   weekCache,
		ids:     ids,
		audit:   auditor,
		metrics: m,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (domain.Booking, error) {

	if err := domain.ValidateDate(in.Date); err != nil {
		return domain.Booking{}, err
	}
	if err := domain.ValidateSlot(in.SlotIndex); err != nil {
		return domain.Booking{}, err
	}
	owner, err := domain.NormalizeOwner(in.Owner)
	if err != nil {
		return domain.Booking{}, err
	}

	b := domain.Booking{
		ID:        uc.ids.NewID(),
		Date:      in.Date,
		SlotIndex: in.SlotIndex,
		Owner:     owner,
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.metrics.Write("create", "conflict")
			uc.audit.Dispatch(audit.Event{
				Actor:  owner,
				Action: audit.ActionBookingConflict,
				Entity: audit.EntityBooking,
				Metadata: map[string]any{
					"date": in.Date.String(),
					"slot": in.SlotIndex,
				},
			})
			return domain.Booking{}, err
		}
		uc.metrics.Write("create", "error")
		return domain.Booking{}, err
	}

	uc.cache.Invalidate(ctx, domain.WeekOf(b.Date).Start)
	uc.metrics.Write("create", "ok")

	uc.audit.Dispatch(audit.Event{
		Actor:    owner,
		Action:   audit.ActionBookingCreated,
		Entity:   audit.EntityBooking,
		EntityID: b.ID,
		Metadata: map[string]any{
			"date": b.Date.String(),
			"slot": b.SlotIndex,
		},
	})

	return b, nil
}
