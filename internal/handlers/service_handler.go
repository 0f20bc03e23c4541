package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sweetmerry/booking-api/internal/audit"
	"github.com/sweetmerry/booking-api/internal/cache"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/images"
	"github.com/sweetmerry/booking-api/internal/middleware"
	"github.com/sweetmerry/booking-api/internal/models"
	"github.com/sweetmerry/booking-api/internal/storage"
)

const maxImageUploadBytes = 5 << 20

type ServiceHandler struct {
	db    *gorm.DB
	cache *cache.Cache
	audit *audit.Dispatcher
	store *storage.ObjectStore
}

func NewServiceHandler(
	db *gorm.DB,
	c *cache.Cache,
	audit *audit.Dispatcher,
	store *storage.ObjectStore,
) *ServiceHandler {
	return &ServiceHandler{db: db, cache: c, audit: audit, store: store}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Description string  `json:"description" binding:"required,min=10"`
	Price       float64 `json:"price" binding:"min=0"`
	DurationMin int     `json:"duration" binding:"required,min=1"`
	Category    string  `json:"category" binding:"required,min=2"`
	Image       string  `json:"image"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	DurationMin *int     `json:"duration,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	activeStr := strings.TrimSpace(c.Query("active"))
	minPriceStr := strings.TrimSpace(c.Query("minPrice"))
	maxPriceStr := strings.TrimSpace(c.Query("maxPrice"))

	q := h.db.Model(&models.Service{})

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if activeStr != "" {
		if activeStr == "true" {
			q = q.Where("is_active = ?", true)
		} else if activeStr == "false" {
			q = q.Where("is_active = ?", false)
		}
	}

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if minPrice, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
		q = q.Where("price <= ?", maxPrice)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"total":    len(services),
	})
}

func (h *ServiceHandler) Get(c *gin.Context) {
	var svc models.Service
	if err := h.db.First(&svc, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Failed to get service")
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": svc})
}

func (h *ServiceHandler) Categories(c *gin.Context) {
	var categories []string
	if h.cache != nil && h.cache.GetJSON(c.Request.Context(), cache.KeyServiceCategories, &categories) {
		c.JSON(http.StatusOK, categories)
		return
	}

	if err := h.db.Model(&models.Service{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		httperr.Internal(c, "failed_to_list_categories", "Failed to list categories")
		return
	}

	if h.cache != nil {
		h.cache.SetJSON(c.Request.Context(), cache.KeyServiceCategories, categories, cache.DefaultTTL)
	}

	c.JSON(http.StatusOK, categories)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	svc := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Category:    strings.ToLower(req.Category),
		Image:       req.Image,
		IsActive:    true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Failed to create service")
		return
	}

	h.invalidate(c)
	h.dispatch(c, "service_created", svc.ID)

	c.JSON(http.StatusCreated, gin.H{"service": svc})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var svc models.Service
	if err := h.db.First(&svc, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Failed to get service")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, "invalid_price", "Price must not be negative")
			return
		}
		svc.Price = *req.Price
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 1 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be positive")
			return
		}
		svc.DurationMin = *req.DurationMin
	}
	if req.Category != nil {
		svc.Category = strings.ToLower(*req.Category)
	}
	if req.Image != nil {
		svc.Image = *req.Image
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Failed to update service")
		return
	}

	h.invalidate(c)
	h.dispatch(c, "service_updated", svc.ID)

	c.JSON(http.StatusOK, gin.H{"service": svc})
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var svc models.Service
	if err := h.db.First(&svc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Failed to get service")
		return
	}

	var refs int64
	if err := h.db.Model(&models.Booking{}).
		Where("service_id = ?", id).
		Count(&refs).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Failed to delete service")
		return
	}
	if refs > 0 {
		httperr.WriteError(c, httperr.ErrBusiness("service_in_use"))
		return
	}

	if err := h.db.Delete(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Failed to delete service")
		return
	}

	h.invalidate(c)
	h.dispatch(c, "service_deleted", id)

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// UploadImage converts a multipart image upload to webp and stores it in the
// object store, recording the key on the service.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if h.store == nil {
		httperr.BadRequest(c, "uploads_disabled", "Image storage is not configured")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Failed to get service")
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Multipart field 'image' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Failed to read image")
		return
	}
	if len(data) > maxImageUploadBytes {
		httperr.BadRequest(c, "image_too_large", "Image must be at most 5 MiB")
		return
	}

	encoded, err := images.ToWebP(data)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	key, err := h.store.PutImage(c.Request.Context(), svc.ID, encoded)
	if err != nil {
		httperr.Internal(c, "failed_to_store_image", "Failed to store image")
		return
	}

	svc.Image = key
	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Failed to update service")
		return
	}

	h.dispatch(c, "service_image_uploaded", svc.ID)

	c.JSON(http.StatusOK, gin.H{"service": svc})
}

// --------- Helpers ---------

func (h *ServiceHandler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), cache.KeyServiceCategories)
	}
}

func (h *ServiceHandler) dispatch(c *gin.Context, action, serviceID string) {
	actorID, _ := middleware.Actor(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   action,
		Entity:   "service",
		EntityID: &serviceID,
	})
}
