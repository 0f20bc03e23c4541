package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sweetmerry/booking-api/internal/cache"
	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/httpresp"
	"github.com/sweetmerry/booking-api/internal/middleware"
	"github.com/sweetmerry/booking-api/internal/payments"
	ucBooking "github.com/sweetmerry/booking-api/internal/usecase/booking"
)

type BookingHandler struct {
	createUC *ucBooking.CreateBooking
	updateUC *ucBooking.UpdateBooking
	getUC    *ucBooking.GetBooking
	listUC   *ucBooking.ListBookings
	deleteUC *ucBooking.DeleteBooking
	statsUC  *ucBooking.StatsOverview

	checkout *payments.Checkout
	cache    *cache.Cache
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	updateUC *ucBooking.UpdateBooking,
	getUC *ucBooking.GetBooking,
	listUC *ucBooking.ListBookings,
	deleteUC *ucBooking.DeleteBooking,
	statsUC *ucBooking.StatsOverview,
	checkout *payments.Checkout,
	c *cache.Cache,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		updateUC: updateUC,
		getUC:    getUC,
		listUC:   listUC,
		deleteUC: deleteUC,
		statsUC:  statsUC,
		checkout: checkout,
		cache:    c,
	}
}

// --------- Requests ---------

type CreateBookingRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateBookingRequest struct {
	Status *string `json:"status,omitempty"`
	Date   *string `json:"date,omitempty"`
	Time   *string `json:"time,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// --------- Handlers ---------

func (h *BookingHandler) Create(c *gin.Context) {
	actorID, _ := middleware.Actor(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:    actorID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.invalidateStats(c)

	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

func (h *BookingHandler) List(c *gin.Context) {
	actorID, role := middleware.Actor(c)
	page, limit := pagination(c)

	bookings, total, err := h.listUC.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		ActorID:   actorID,
		ActorRole: role,
		Status:    c.Query("status"),
		ServiceID: c.Query("serviceId"),
		Date:      c.Query("date"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Page(c, "bookings", bookings, total, page, limit)
}

func (h *BookingHandler) Get(c *gin.Context) {
	actorID, role := middleware.Actor(c)

	b, err := h.getUC.Execute(c.Request.Context(), c.Param("id"), actorID, role)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) Update(c *gin.Context) {
	actorID, role := middleware.Actor(c)

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	b, err := h.updateUC.Execute(c.Request.Context(), ucBooking.UpdateBookingInput{
		BookingID: c.Param("id"),
		ActorID:   actorID,
		ActorRole: role,
		Status:    req.Status,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.invalidateStats(c)

	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) Delete(c *gin.Context) {
	actorID, _ := middleware.Actor(c)

	if err := h.deleteUC.Execute(c.Request.Context(), c.Param("id"), actorID); err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.invalidateStats(c)

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Checkout opens a payment preference for the caller's own booking.
func (h *BookingHandler) Checkout(c *gin.Context) {
	if h.checkout == nil {
		httperr.BadRequest(c, "payments_disabled", "Checkout is not configured")
		return
	}

	actorID, role := middleware.Actor(c)

	b, err := h.getUC.Execute(c.Request.Context(), c.Param("id"), actorID, role)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	pref, err := h.checkout.CreateForBooking(c.Request.Context(), b, &b.Service)
	if err != nil {
		httperr.Internal(c, "checkout_failed", "Failed to create checkout preference")
		return
	}

	c.JSON(http.StatusCreated, pref)
}

func (h *BookingHandler) invalidateStats(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), cache.KeyBookingStats, cache.KeyUserStats)
	}
}
