package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/sweetmerry/booking-api/internal/config"
	"github.com/sweetmerry/booking-api/internal/models"
)

// Checkout creates MercadoPago payment preferences for bookings.
type Checkout struct {
	client  preference.Client
	backURL string
}

// New returns nil when no access token is configured; callers treat a nil
// checkout as "payments disabled".
func New(cfg config.PaymentConfig) (*Checkout, error) {
	if cfg.AccessToken == "" {
		return nil, nil
	}

	mpCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		client:  preference.NewClient(mpCfg),
		backURL: cfg.BackURL,
	}, nil
}

// Preference is what the API hands back to the client for redirecting into
// the hosted checkout.
type Preference struct {
	ID        string `json:"preference_id"`
	InitPoint string `json:"init_point"`
}

// CreateForBooking opens a checkout preference priced from the booked
// service.
func (c *Checkout) CreateForBooking(ctx context.Context, b *models.Booking, svc *models.Service) (*Preference, error) {
	req := preference.Request{
		ExternalReference: b.ID,
		Items: []preference.ItemRequest{
			{
				ID:          svc.ID,
				Title:       svc.Name,
				Description: fmt.Sprintf("%s on %s at %s", svc.Name, b.Date.Format("2006-01-02"), b.Time),
				Quantity:    1,
				UnitPrice:   svc.Price,
			},
		},
		BackURLs: &preference.BackURLsRequest{
			Success: c.backURL,
			Pending: c.backURL,
			Failure: c.backURL,
		},
	}

	resp, err := c.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Preference{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}
