package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seed(t *testing.T, db *gorm.DB) (*models.User, *models.Service) {
	t.Helper()

	user := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         string(models.RoleUser),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := &models.Service{
		Name:        "Cake Tasting",
		Description: "One hour tasting session",
		Price:       50,
		DurationMin: 60,
		Category:    "tasting",
		IsActive:    true,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	return user, svc
}

func slotDay() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func createBooking(t *testing.T, repo *BookingGormRepository, userID, serviceID, slot, status string) *models.Booking {
	t.Helper()

	b := &models.Booking{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      slotDay(),
		Time:      slot,
		Status:    status,
	}
	if err := repo.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func TestGetService(t *testing.T) {
	db := testDB(t)
	_, svc := seed(t, db)
	repo := NewBookingGormRepository(db)

	got, err := repo.GetService(context.Background(), svc.ID)
	if err != nil {
		t.Fatalf("get service: %v", err)
	}
	if got == nil || got.Name != "Cake Tasting" {
		t.Fatalf("unexpected service %+v", got)
	}

	missing, err := repo.GetService(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing service: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestCountActiveInSlot(t *testing.T) {
	db := testDB(t)
	user, svc := seed(t, db)
	repo := NewBookingGormRepository(db)

	held := createBooking(t, repo, user.ID, svc.ID, "10:00", string(domain.StatusPending))
	createBooking(t, repo, user.ID, svc.ID, "11:00", string(domain.StatusCancelled))

	count, err := repo.CountActiveInSlot(context.Background(), svc.ID, slotDay(), "10:00", "")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active booking at 10:00, got %d", count)
	}

	// Cancelled bookings never occupy a slot.
	count, err = repo.CountActiveInSlot(context.Background(), svc.ID, slotDay(), "11:00", "")
	if err != nil {
		t.Fatalf("count cancelled slot: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cancelled slot free, got %d", count)
	}

	// A booking never conflicts with itself during reschedule.
	count, err = repo.CountActiveInSlot(context.Background(), svc.ID, slotDay(), "10:00", held.ID)
	if err != nil {
		t.Fatalf("count excluding self: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 when excluding own id, got %d", count)
	}
}

func TestListBookings_Filters(t *testing.T) {
	db := testDB(t)
	user, svc := seed(t, db)
	repo := NewBookingGormRepository(db)

	other := &models.User{
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: "x",
		Role:         string(models.RoleUser),
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed second user: %v", err)
	}

	createBooking(t, repo, user.ID, svc.ID, "10:00", string(domain.StatusPending))
	createBooking(t, repo, other.ID, svc.ID, "11:00", string(domain.StatusConfirmed))
	createBooking(t, repo, other.ID, svc.ID, "12:00", string(domain.StatusCancelled))

	// Owner scope.
	got, total, err := repo.ListBookings(context.Background(), domain.ListFilter{
		UserID: user.ID, Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].UserID != user.ID {
		t.Fatalf("expected 1 booking for user, got %d", total)
	}

	// Status filter.
	_, total, err = repo.ListBookings(context.Background(), domain.ListFilter{
		Status: string(domain.StatusCancelled), Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 cancelled booking, got %d", total)
	}

	// Date filter covers the whole day.
	day := slotDay()
	_, total, err = repo.ListBookings(context.Background(), domain.ListFilter{
		Date: &day, Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 bookings on day, got %d", total)
	}

	// Pagination.
	got, total, err = repo.ListBookings(context.Background(), domain.ListFilter{
		Page: 1, Limit: 2,
	})
	if err != nil {
		t.Fatalf("paginated list: %v", err)
	}
	if total != 3 || len(got) != 2 {
		t.Fatalf("expected total=3 page of 2, got total=%d len=%d", total, len(got))
	}
}

func TestUpdateAndDeleteBooking(t *testing.T) {
	db := testDB(t)
	user, svc := seed(t, db)
	repo := NewBookingGormRepository(db)

	b := createBooking(t, repo, user.ID, svc.ID, "10:00", string(domain.StatusPending))

	b.Status = string(domain.StatusConfirmed)
	if err := repo.UpdateBooking(context.Background(), b); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetBooking(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Fatalf("expected CONFIRMED, got %s", got.Status)
	}
	if got.Service.ID != svc.ID || got.User.ID != user.ID {
		t.Fatalf("expected preloaded relations, got %+v", got)
	}

	if err := repo.DeleteBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.GetBooking(context.Background(), b.ID); !httperr.IsBusiness(err, "booking_not_found") {
		t.Fatalf("expected booking_not_found, got %v", err)
	}

	if err := repo.DeleteBooking(context.Background(), b.ID); !httperr.IsBusiness(err, "booking_not_found") {
		t.Fatalf("double delete: expected booking_not_found, got %v", err)
	}
}

func TestCountByStatus(t *testing.T) {
	db := testDB(t)
	user, svc := seed(t, db)
	repo := NewBookingGormRepository(db)

	createBooking(t, repo, user.ID, svc.ID, "09:00", string(domain.StatusPending))
	createBooking(t, repo, user.ID, svc.ID, "10:00", string(domain.StatusConfirmed))
	createBooking(t, repo, user.ID, svc.ID, "11:00", string(domain.StatusConfirmed))
	createBooking(t, repo, user.ID, svc.ID, "12:00", string(domain.StatusCompleted))
	createBooking(t, repo, user.ID, svc.ID, "13:00", string(domain.StatusCancelled))

	stats, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 5 || stats.Pending != 1 || stats.Confirmed != 2 ||
		stats.Completed != 1 || stats.Cancelled != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
