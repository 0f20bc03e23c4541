package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	infraRepo "github.com/sweetmerry/booking-api/internal/infra/repository"
	"github.com/sweetmerry/booking-api/internal/models"
	ucBooking "github.com/sweetmerry/booking-api/internal/usecase/booking"
)

func seedBookingRow(t *testing.T, db *gorm.DB, userID, serviceID, slot, status string) *models.Booking {
	t.Helper()

	b := &models.Booking{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:      slot,
		Status:    status,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func TestBookingList_Envelope(t *testing.T) {
	db := testDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", string(models.RoleAdmin))
	user := seedUser(t, db, "Alice", "alice@example.com", string(models.RoleUser))

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

	seedBookingRow(t, db, user.ID, svc.ID, "10:00", "PENDING")
	seedBookingRow(t, db, user.ID, svc.ID, "11:00", "CONFIRMED")

	repo := infraRepo.NewBookingGormRepository(db)
	listUC := ucBooking.NewListBookings(repo, "UTC")
	h := NewBookingHandler(nil, nil, nil, listUC, nil, nil, nil, nil)

	c, rec := request(t, "/api/bookings?page=1&limit=10")
	asActor(c, admin.ID, models.RoleAdmin)
	h.List(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Bookings   []models.Booking `json:"bookings"`
		Total      int64            `json:"total"`
		Page       int              `json:"page"`
		TotalPages int              `json:"totalPages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Total != 2 || len(body.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got total=%d len=%d", body.Total, len(body.Bookings))
	}
	if body.Page != 1 || body.TotalPages != 1 {
		t.Fatalf("unexpected paging %+v", body)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if _, ok := raw["data"]; ok {
		t.Fatalf("unexpected data key in %s", rec.Body.String())
	}
}
