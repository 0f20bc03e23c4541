package booking

import (
	"context"

	"github.com/sweetmerry/booking-api/internal/audit"
	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
)

type DeleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteBooking {
	return &DeleteBooking{
		repo:  repo,
		audit: audit,
	}
}

// Execute hard-deletes a booking. Route-level auth restricts this to admins.
func (uc *DeleteBooking) Execute(
	ctx context.Context,
	bookingID string,
	actorID string,
) error {

	if err := uc.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "booking_deleted",
		Entity:   "booking",
		EntityID: &bookingID,
	})

	return nil
}
