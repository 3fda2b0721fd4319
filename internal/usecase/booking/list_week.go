package booking

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/cache"
	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/metrics"
)

type ListWeek struct {
	repo    domain.Repository
	cache   cache.WeekCache
	metrics *metrics.Metrics
}

func NewListWeek(
	repo domain.Repository,
	weekCache cache.WeekCache,
	m *metrics.Metrics,
) *ListWeek {
	if weekCache == nil {
		weekCache = cache.Nop{}
	}
	return &ListWeek{
		repo:    repo,
		cache:   weekCache,
		metrics: m,
	}
}

// Execute returns the bookings of the week containing date.
func (uc *ListWeek) Execute(
	ctx context.Context,
	date civil.Date,
) (domain.Week, []domain.Booking, error) {

	if err := domain.ValidateDate(date); err != nil {
		return domain.Week{}, nil, err
	}

	week := domain.WeekOf(date)

	if cached, ok := uc.cache.Get(ctx, week.Start); ok {
		uc.metrics.CacheLookup(true)
		return week, cached, nil
	}
	uc.metrics.CacheLookup(false)

	version := uc.cache.Version(ctx, week.Start)
	bookings, err := uc.repo.ListBetween(ctx, week.Start, week.End())
	if err != nil {
		return domain.Week{}, nil, err
	}

	uc.cache.Set(ctx, week.Start, version, bookings)
	return week, bookings, nil
}
