package booking

import (
	"context"
	"time"

	"github.com/sweetmerry/booking-api/internal/models"
)

// ListFilter narrows a booking listing. An empty UserID means no owner scope
// (admin view). Page is 1-based.
type ListFilter struct {
	UserID    string
	ServiceID string
	Status    string
	Date      *time.Time

	Page  int
	Limit int
}

// StatsOverview is the fixed-shape status breakdown returned by the stats
// endpoint.
type StatsOverview struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		id string,
	) (*models.Service, error)

	// -------- Booking (create / conflict) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// CountActiveInSlot counts PENDING/CONFIRMED bookings occupying the
	// exact (service, date, time) tuple. excludeID is skipped when
	// non-empty, so a booking being rescheduled never conflicts with
	// itself.
	CountActiveInSlot(
		ctx context.Context,
		serviceID string,
		date time.Time,
		slot string,
		excludeID string,
	) (int64, error)

	// -------- Booking (read / mutate) --------
	GetBooking(
		ctx context.Context,
		id string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	DeleteBooking(
		ctx context.Context,
		id string,
	) error

	ListBookings(
		ctx context.Context,
		f ListFilter,
	) ([]models.Booking, int64, error)

	// -------- Stats --------
	CountByStatus(
		ctx context.Context,
	) (*StatsOverview, error)
}
