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

type UpdateBookingInput struct {
	BookingID string
	ActorID   string
	ActorRole models.Role

	Status *string
	Date   *string // "2006-01-02"
	Time   *string // "HH:MM"
	Notes  *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewUpdateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *UpdateBooking {
	return &UpdateBooking{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

func (uc *UpdateBooking) Execute(
	ctx context.Context,
	in UpdateBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	patch, err := uc.buildPatch(in)
	if err != nil {
		return nil, err
	}

	// Conflict set for the effective slot, never counting the booking
	// being moved.
	var active int64
	if patch.Reschedules() {
		date, slot := domain.ResolveSlot(b, patch)
		active, err = uc.repo.CountActiveInSlot(
			ctx,
			b.ServiceID,
			domain.Day(date),
			slot,
			b.ID,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := domain.CanUpdate(domain.UpdateInput{
		Booking:      b,
		ActorID:      in.ActorID,
		ActorRole:    in.ActorRole,
		Patch:        patch,
		ActiveInSlot: active,
		Now:          timezone.NowIn(uc.tz),
	}); err != nil {
		return nil, err
	}

	domain.Apply(b, patch)

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "booking_updated",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: in,
	})

	return b, nil
}

func (uc *UpdateBooking) buildPatch(in UpdateBookingInput) (domain.UpdatePatch, error) {
	var patch domain.UpdatePatch

	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}

	if in.Date != nil {
		date, err := time.ParseInLocation(
			"2006-01-02",
			*in.Date,
			timezone.Location(uc.tz),
		)
		if err != nil {
			return patch, httperr.ErrBusiness("invalid_date")
		}
		patch.Date = &date
	}

	patch.Time = in.Time
	patch.Notes = in.Notes

	return patch, nil
}
