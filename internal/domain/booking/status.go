package booking

import "github.com/sweetmerry/booking-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(raw), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// Active reports whether the status counts toward slot conflicts.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transitions
// ===============================

// CanTransition enforces the booking state machine:
// PENDING -> CONFIRMED | CANCELLED, CONFIRMED -> COMPLETED | CANCELLED.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}

	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCompleted || to == StatusCancelled {
			return nil
		}
	}

	return httperr.ErrBusiness("invalid_transition")
}

// InitialStatus is the status every new booking is persisted with.
func InitialStatus() Status {
	return StatusPending
}
