package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/models"
)

const pgUniqueViolation = "23505"

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Query
// --------------------------------------------------

func (r *BookingGormRepository) ListBetween(
	ctx context.Context,
	from civil.Date,
	to civil.Date,
) ([]domain.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from.String(), to.String()).
		Order("date ASC").
		Order("slot_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// --------------------------------------------------
// Create (check + insert in one transaction)
// --------------------------------------------------

func (r *BookingGormRepository) Create(
	ctx context.Context,
	b domain.Booking,
) error {

	row := fromDomain(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// FOR UPDATE cannot be combined with COUNT in Postgres.
		var existing []models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND slot_index = ?", row.Date, row.SlotIndex).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			return domain.ErrConflict
		}

		return tx.Create(&row).Error
	})

	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

// --------------------------------------------------
// Delete
// --------------------------------------------------

func (r *BookingGormRepository) Delete(
	ctx context.Context,
	id string,
) (domain.Booking, error) {

	var row models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Booking{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	return toDomain(row)
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func toDomain(row models.Booking) (domain.Booking, error) {
	d, err := civil.ParseDate(row.Date)
	if err != nil {
		return domain.Booking{}, err
	}
	return domain.Booking{
		ID:        row.ID,
		Date:      d,
		SlotIndex: row.SlotIndex,
		Owner:     row.Owner,
	}, nil
}

func fromDomain(b domain.Booking) models.Booking {
	return models.Booking{
		ID:        b.ID,
		Date:      b.Date.String(),
		SlotIndex: b.SlotIndex,
		Owner:     b.Owner,
	}
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
