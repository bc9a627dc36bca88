package appointment

import "github.com/BruksfildServices01/assistant-calendar/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Domain errors
// ===============================

var (
	ErrSlotTaken = httperr.ErrConflict(
		"slot_already_booked",
		"Slot is already booked, choose another time.",
	)
	ErrNotFound = httperr.ErrNotFound(
		"appointment_not_found",
		"Appointment not found.",
	)
	ErrInvalidState = httperr.ErrValidation(
		"invalid_state",
		"Appointment cannot change to the requested status.",
	)
)

// ===============================
// Validations
// ===============================

// CanCancel allows confirmed appointments and tolerates a repeat cancel.
func CanCancel(current Status) error {
	switch current {
	case StatusConfirmed, StatusCancelled:
		return nil
	}
	return ErrInvalidState
}

func InitialStatus() Status {
	return StatusConfirmed
}
