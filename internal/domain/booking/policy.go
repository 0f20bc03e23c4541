package booking

import (
	"regexp"
	"time"

	"github.com/sweetmerry/booking-api/internal/httperr"
	"github.com/sweetmerry/booking-api/internal/models"
)

// ===============================
// Booking Policy
// ===============================
//
// Pure admission decisions for booking create/update requests. The caller
// loads the service and counts active bookings for the slot; storage and
// transport stay out of this package.

var timeRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTime reports whether a slot time matches "HH:MM".
func ValidTime(t string) bool {
	return timeRe.MatchString(t)
}

// Day truncates a timestamp to its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateInput carries everything CanCreate needs to decide.
type CreateInput struct {
	// Service is nil when the requested id did not resolve.
	Service *models.Service

	Date time.Time
	Time string

	// ActiveInSlot counts existing PENDING/CONFIRMED bookings for the
	// exact (service, date, time) tuple.
	ActiveInSlot int64

	Now time.Time
}

// CanCreate decides whether a new booking is admissible. On success the
// caller persists a booking with InitialStatus.
func CanCreate(in CreateInput) error {
	if in.Service == nil {
		return httperr.ErrBusiness("service_not_found")
	}
	if !in.Service.IsActive {
		return httperr.ErrBusiness("service_unavailable")
	}
	if !ValidTime(in.Time) {
		return httperr.ErrBusiness("invalid_time")
	}
	if Day(in.Date).Before(Day(in.Now)) {
		return httperr.ErrBusiness("past_date")
	}
	if in.ActiveInSlot > 0 {
		return httperr.ErrBusiness("slot_conflict")
	}
	return nil
}

// ===============================
// Updates
// ===============================

// UpdatePatch is the subset of booking fields a PUT may change. Nil fields
// are left untouched.
type UpdatePatch struct {
	Status *Status
	Date   *time.Time
	Time   *string
	Notes  *string
}

// Reschedules reports whether the patch moves the booking to another slot.
func (p UpdatePatch) Reschedules() bool {
	return p.Date != nil || p.Time != nil
}

// ResolveSlot computes the effective (date, time) after applying the patch,
// falling back to the existing values for unset fields.
func ResolveSlot(b *models.Booking, patch UpdatePatch) (time.Time, string) {
	date := b.Date
	if patch.Date != nil {
		date = *patch.Date
	}
	slot := b.Time
	if patch.Time != nil {
		slot = *patch.Time
	}
	return date, slot
}

// UpdateInput carries everything CanUpdate needs to decide.
type UpdateInput struct {
	Booking   *models.Booking
	ActorID   string
	ActorRole models.Role

	Patch UpdatePatch

	// ActiveInSlot counts active bookings for the effective slot,
	// excluding the booking being updated. Only consulted when the patch
	// reschedules.
	ActiveInSlot int64

	Now time.Time
}

// CanUpdate decides whether the patch may be applied. The caller persists the
// resolved fields on success.
func CanUpdate(in UpdateInput) error {
	b := in.Booking

	if !in.ActorRole.IsAdmin() && b.UserID != in.ActorID {
		return httperr.ErrBusiness("access_denied")
	}

	if in.Patch.Status != nil {
		current := Status(b.Status)
		next := *in.Patch.Status

		if !in.ActorRole.IsAdmin() {
			// Owners may only cancel, and never a completed booking.
			if next != StatusCancelled || current == StatusCompleted {
				return httperr.ErrBusiness("forbidden")
			}
		}

		if err := CanTransition(current, next); err != nil {
			return err
		}
	}

	if in.Patch.Reschedules() {
		date, slot := ResolveSlot(b, in.Patch)
		if !ValidTime(slot) {
			return httperr.ErrBusiness("invalid_time")
		}
		if Day(date).Before(Day(in.Now)) {
			return httperr.ErrBusiness("past_date")
		}
		if in.ActiveInSlot > 0 {
			return httperr.ErrBusiness("slot_conflict")
		}
	}

	return nil
}

// Apply writes the patch into the booking. Call only after CanUpdate.
func Apply(b *models.Booking, patch UpdatePatch) {
	if patch.Status != nil {
		b.Status = string(*patch.Status)
	}
	if patch.Date != nil {
		b.Date = Day(*patch.Date)
	}
	if patch.Time != nil {
		b.Time = *patch.Time
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}
}
