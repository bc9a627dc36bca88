package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

// Repository is the appointment store. The calendar is one global resource:
// no two confirmed appointments may overlap, and InsertIfNoOverlap is the only
// place that rule is decided.
type Repository interface {
	// -------- Read --------
	ListAppointments(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	FindOverlapping(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	// -------- Write --------

	// InsertIfNoOverlap persists ap atomically with respect to every other
	// insert, or returns ErrSlotTaken.
	InsertIfNoOverlap(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Cancel returns the cancelled record and whether this call changed it.
	Cancel(
		ctx context.Context,
		id string,
		now time.Time,
	) (*models.Appointment, bool, error)
}

// SlotCache holds computed availability per day. Entries are advisory only;
// the booking path never reads them.
type SlotCache interface {
	Get(ctx context.Context, date string, durationMin int) ([]TimeSlot, bool, error)
	Set(ctx context.Context, date string, durationMin int, slots []TimeSlot) error
	Invalidate(ctx context.Context, dates ...string) error
}
