package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// uniqueViolation detects the partial unique index on active slots firing
// underneath a create/update, which means another request won the slot
// between our check and the write.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id string,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if uniqueViolation(err) {
			return httperr.ErrBusiness("slot_conflict")
		}
		return err
	}
	return nil
}

func (r *BookingGormRepository) CountActiveInSlot(
	ctx context.Context,
	serviceID string,
	date time.Time,
	slot string,
	excludeID string,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"service_id = ? AND date = ? AND time = ? AND status IN ?",
			serviceID,
			date,
			slot,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		)

	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Booking (read / mutate)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		First(&b, "id = ?", id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		if uniqueViolation(err) {
			return httperr.ErrBusiness("slot_conflict")
		}
		return err
	}
	return nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id string,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("booking_not_found")
	}
	return nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ServiceID != "" {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	var bookings []models.Booking
	if err := q.
		Preload("User").
		Preload("Service").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (r *BookingGormRepository) CountByStatus(
	ctx context.Context,
) (*domain.StatsOverview, error) {

	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &domain.StatsOverview{}
	for _, rw := range rows {
		stats.Total += rw.Count
		switch domain.Status(rw.Status) {
		case domain.StatusPending:
			stats.Pending = rw.Count
		case domain.StatusConfirmed:
			stats.Confirmed = rw.Count
		case domain.StatusCompleted:
			stats.Completed = rw.Count
		case domain.StatusCancelled:
			stats.Cancelled = rw.Count
		}
	}

	return stats, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
