package booking

import (
	"context"
	"time"

	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
	"github.com/sweetmerry/booking-api/internal/timezone"
)

type ListBookingsInput struct {
	ActorID   string
	ActorRole models.Role

	Status    string
	ServiceID string
	Date      string // "2006-01-02", optional

	Page  int
	Limit int
}

type ListBookings struct {
	repo domain.Repository
	tz   string
}

func NewListBookings(repo domain.Repository, tz string) *ListBookings {
	return &ListBookings{repo: repo, tz: tz}
}

// Execute lists bookings. Non-admin actors only ever see their own.
func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) ([]models.Booking, int64, error) {

	f := domain.ListFilter{
		ServiceID: in.ServiceID,
		Status:    in.Status,
		Page:      in.Page,
		Limit:     in.Limit,
	}

	if !in.ActorRole.IsAdmin() {
		f.UserID = in.ActorID
	}

	if in.Date != "" {
		date, err := time.ParseInLocation(
			"2006-01-02",
			in.Date,
			timezone.Location(uc.tz),
		)
		if err != nil {
			return nil, 0, httperr.ErrBusiness("invalid_date")
		}
		day := domain.Day(date)
		f.Date = &day
	}

	return uc.repo.ListBookings(ctx, f)
}
