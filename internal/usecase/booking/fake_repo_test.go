package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
)

// fakeRepo keeps bookings and services in memory for use-case tests.
type fakeRepo struct {
	services map[string]*models.Service
	bookings map[string]*models.Booking
	nextID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[string]*models.Service{},
		bookings: map[string]*models.Booking{},
	}
}

func (r *fakeRepo) addService(svc *models.Service) {
	r.services[svc.ID] = svc
}

func (r *fakeRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	return r.services[id], nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	if b.ID == "" {
		r.nextID++
		b.ID = fmt.Sprintf("bk-%d", r.nextID)
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) CountActiveInSlot(
	_ context.Context,
	serviceID string,
	date time.Time,
	slot string,
	excludeID string,
) (int64, error) {

	var count int64
	for _, b := range r.bookings {
		if b.ID == excludeID {
			continue
		}
		if b.ServiceID == serviceID && b.Date.Equal(date) && b.Time == slot &&
			domain.Status(b.Status).Active() {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return httperr.ErrBusiness("booking_not_found")
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteBooking(_ context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return httperr.ErrBusiness("booking_not_found")
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) ListBookings(
	_ context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	var out []models.Booking
	for _, b := range r.bookings {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.ServiceID != "" && b.ServiceID != f.ServiceID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Date != nil && !b.Date.Equal(*f.Date) {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) CountByStatus(_ context.Context) (*domain.StatsOverview, error) {
	stats := &domain.StatsOverview{}
	for _, b := range r.bookings {
		stats.Total++
		switch domain.Status(b.Status) {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
