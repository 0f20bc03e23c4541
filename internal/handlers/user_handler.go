package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sweetmerry/booking-api/internal/audit"
	"github.com/sweetmerry/booking-api/internal/cache"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/httpresp"
	"github.com/sweetmerry/booking-api/internal/middleware"
	"github.com/sweetmerry/booking-api/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	cache *cache.Cache
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, c *cache.Cache, audit *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, cache: c, audit: audit}
}

// --------- Requests ---------

type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Role    *string `json:"role,omitempty"`
}

// UserStats is the fixed-shape summary for the admin dashboard.
type UserStats struct {
	Total   int64 `json:"total"`
	Admins  int64 `json:"admins"`
	Regular int64 `json:"regular"`
	Active  int64 `json:"active"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	q := h.db.Model(&models.User{})

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Failed to list users")
		return
	}

	var users []models.User
	if err := q.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Failed to list users")
		return
	}

	httpresp.Page(c, "users", users, total, page, limit)
}

func (h *UserHandler) Get(c *gin.Context) {
	var user models.User
	if err := h.db.
		Preload("Bookings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Bookings.Service").
		First(&user, "id = ?", c.Param("id")).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	actorID, actorRole := middleware.Actor(c)
	id := c.Param("id")

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Failed to get user")
		return
	}

	if !actorRole.IsAdmin() && user.ID != actorID {
		httperr.WriteError(c, httperr.ErrBusiness("access_denied"))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Role != nil {
		if !actorRole.IsAdmin() {
			httperr.WriteError(c, httperr.ErrBusiness("forbidden"))
			return
		}
		role := models.Role(*req.Role)
		if role != models.RoleUser && role != models.RoleAdmin {
			httperr.BadRequest(c, "invalid_role", "Role must be USER or ADMIN")
			return
		}
		user.Role = string(role)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Failed to update user")
		return
	}

	h.invalidateStats(c)
	h.dispatch(c, "user_updated", user.ID)

	c.JSON(http.StatusOK, gin.H{"user": publicUser(&user)})
}

func (h *UserHandler) Delete(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	id := c.Param("id")

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Failed to get user")
		return
	}

	if user.ID == actorID {
		httperr.WriteError(c, httperr.ErrBusiness("cannot_delete_self"))
		return
	}

	var refs int64
	if err := h.db.Model(&models.Booking{}).
		Where("user_id = ?", id).
		Count(&refs).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Failed to delete user")
		return
	}
	if refs > 0 {
		httperr.WriteError(c, httperr.ErrBusiness("user_has_bookings"))
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Failed to delete user")
		return
	}

	h.invalidateStats(c)
	h.dispatch(c, "user_deleted", id)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) Stats(c *gin.Context) {
	var stats UserStats
	if h.cache != nil && h.cache.GetJSON(c.Request.Context(), cache.KeyUserStats, &stats) {
		c.JSON(http.StatusOK, stats)
		return
	}

	users := h.db.Model(&models.User{})
	if err := users.Count(&stats.Total).Error; err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Failed to get user stats")
		return
	}

	h.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&stats.Admins)
	h.db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&stats.Regular)
	h.db.Model(&models.User{}).
		Where("id IN (?)", h.db.Model(&models.Booking{}).Select("DISTINCT user_id")).
		Count(&stats.Active)

	if h.cache != nil {
		h.cache.SetJSON(c.Request.Context(), cache.KeyUserStats, stats, cache.DefaultTTL)
	}

	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) invalidateStats(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), cache.KeyUserStats)
	}
}

func (h *UserHandler) dispatch(c *gin.Context, action, userID string) {
	actorID, _ := middleware.Actor(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   action,
		Entity:   "user",
		EntityID: &userID,
	})
}
