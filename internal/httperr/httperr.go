package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// businessStatus maps policy/use-case business codes onto HTTP statuses so
// handlers stop re-deciding the taxonomy per route.
var businessStatus = map[string]int{
	"service_not_found":   http.StatusNotFound,
	"booking_not_found":   http.StatusNotFound,
	"user_not_found":      http.StatusNotFound,
	"service_unavailable": http.StatusBadRequest,
	"invalid_time":        http.StatusBadRequest,
	"invalid_status":      http.StatusBadRequest,
	"invalid_transition":  http.StatusBadRequest,
	"past_date":           http.StatusBadRequest,
	"slot_conflict":       http.StatusBadRequest,
	"service_in_use":      http.StatusBadRequest,
	"user_has_bookings":   http.StatusBadRequest,
	"cannot_delete_self":  http.StatusBadRequest,
	"access_denied":       http.StatusForbidden,
	"forbidden":           http.StatusForbidden,
}

var businessMessage = map[string]string{
	"service_not_found":   "Service not found",
	"booking_not_found":   "Booking not found",
	"user_not_found":      "User not found",
	"service_unavailable": "Service is not available",
	"invalid_time":        "Time must match HH:MM",
	"invalid_status":      "Unknown booking status",
	"invalid_transition":  "Status transition not allowed",
	"past_date":           "Date must not be in the past",
	"slot_conflict":       "Time slot is already booked",
	"service_in_use":      "Service has bookings and cannot be deleted",
	"user_has_bookings":   "User has bookings and cannot be deleted",
	"cannot_delete_self":  "Cannot delete your own account",
	"access_denied":       "Access denied",
	"forbidden":           "Operation not allowed for this role",
}

// WriteError renders any error: business errors get their mapped status and
// message, everything else becomes a generic 500.
func WriteError(c *gin.Context, err error) {
	if code := BusinessCode(err); code != "" {
		status, ok := businessStatus[code]
		if !ok {
			status = http.StatusBadRequest
		}
		msg := businessMessage[code]
		if msg == "" {
			msg = code
		}
		Write(c, status, code, msg)
		return
	}
	Internal(c, "internal_error", "Internal server error")
}
