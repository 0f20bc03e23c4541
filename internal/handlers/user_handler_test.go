package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sweetmerry/booking-api/internal/audit"
	"github.com/sweetmerry/booking-api/internal/cache"
	"github.com/sweetmerry/booking-api/internal/config"
	"github.com/sweetmerry/booking-api/internal/middleware"
	"github.com/sweetmerry/booking-api/internal/models"
)

type noopSink struct{}

func (noopSink) Log(*string, string, string, *string, any) error { return nil }

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(noopSink{}, zap.NewNop())
}

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
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func request(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, rec
}

func asActor(c *gin.Context, id string, role models.Role) {
	c.Set(middleware.ContextUserID, id)
	c.Set(middleware.ContextUserRole, role)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

// unreachableCache returns a cache whose redis backend does not exist, so
// every cache call degrades instead of failing the request.
func unreachableCache() *cache.Cache {
	return cache.New(config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
}

func TestUserList_Envelope(t *testing.T) {
	db := testDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", string(models.RoleAdmin))
	seedUser(t, db, "Alice", "alice@example.com", string(models.RoleUser))
	seedUser(t, db, "Bob", "bob@example.com", string(models.RoleUser))

	h := NewUserHandler(db, nil, testDispatcher())

	c, rec := request(t, "/api/users?page=1&limit=2")
	asActor(c, admin.ID, models.RoleAdmin)
	h.List(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Users      []models.User `json:"users"`
		Total      int64         `json:"total"`
		Page       int           `json:"page"`
		TotalPages int           `json:"totalPages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Total != 3 || len(body.Users) != 2 {
		t.Fatalf("expected total=3 page of 2, got total=%d len=%d", body.Total, len(body.Users))
	}
	if body.Page != 1 || body.TotalPages != 2 {
		t.Fatalf("unexpected paging %+v", body)
	}
}

func TestUserDelete_OK(t *testing.T) {
	db := testDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", string(models.RoleAdmin))
	target := seedUser(t, db, "Alice", "alice@example.com", string(models.RoleUser))

	h := NewUserHandler(db, unreachableCache(), testDispatcher())

	c, rec := request(t, "/api/users/"+target.ID)
	asActor(c, admin.ID, models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: target.ID}}
	h.Delete(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Fatal("expected user to be deleted")
	}
}

func TestUserDelete_SelfRejected(t *testing.T) {
	db := testDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", string(models.RoleAdmin))

	h := NewUserHandler(db, nil, testDispatcher())

	c, rec := request(t, "/api/users/"+admin.ID)
	asActor(c, admin.ID, models.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: admin.ID}}
	h.Delete(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserUpdate_RoleChangeNeedsAdmin(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "Alice", "alice@example.com", string(models.RoleUser))

	h := NewUserHandler(db, unreachableCache(), testDispatcher())

	c, rec := request(t, "/api/users/"+user.ID)
	asActor(c, user.ID, models.RoleUser)
	c.Params = gin.Params{{Key: "id", Value: user.ID}}
	c.Request = httptest.NewRequest(
		http.MethodPut,
		"/api/users/"+user.ID,
		jsonBody(t, map[string]string{"role": "ADMIN"}),
	)
	h.Update(c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Role != string(models.RoleUser) {
		t.Fatalf("expected role unchanged, got %s", stored.Role)
	}
}
