package booking

import (
	"context"

	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
)

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

// Execute loads a booking, visible only to its owner or an admin.
func (uc *GetBooking) Execute(
	ctx context.Context,
	bookingID string,
	actorID string,
	actorRole models.Role,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actorRole.IsAdmin() && b.UserID != actorID {
		return nil, httperr.ErrBusiness("access_denied")
	}

	return b, nil
}
