package booking

import (
	"context"
	"time"

	"github.com/sweetmerry/booking-api/internal/audit"
	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
	"github.com/sweetmerry/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID    string
	ServiceID string

	Date  string // "2006-01-02"
	Time  string // "HH:MM"
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	date, err := time.ParseInLocation(
		"2006-01-02",
		in.Date,
		timezone.Location(uc.tz),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	active, err := uc.repo.CountActiveInSlot(ctx, in.ServiceID, domain.Day(date), in.Time, "")
	if err != nil {
		return nil, err
	}

	if err := domain.CanCreate(domain.CreateInput{
		Service:      svc,
		Date:         date,
		Time:         in.Time,
		ActiveInSlot: active,
		Now:          timezone.NowIn(uc.tz),
	}); err != nil {
		return nil, err
	}

	b := &models.Booking{
		UserID:    in.UserID,
		ServiceID: in.ServiceID,
		Date:      domain.Day(date),
		Time:      in.Time,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return uc.repo.GetBooking(ctx, b.ID)
}
