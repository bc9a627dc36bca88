package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/assistant-calendar/internal/audit"
	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/models"
	"github.com/BruksfildServices01/assistant-calendar/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	hours domain.WorkingHours
	cache domain.SlotCache
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	hours domain.WorkingHours,
	cache domain.SlotCache,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		hours: hours,
		cache: cache,
		audit: audit,
		now:   now,
	}
}

// Execute cancels the appointment. Cancelling an already cancelled
// appointment succeeds and returns it unchanged.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	id := strings.TrimSpace(appointmentID)
	if id == "" {
		return nil, httperr.ErrValidation("missing_appointment_id", "appointment_id is required.")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	ap, changed, err := uc.repo.Cancel(ctx, id, uc.now())
	if err != nil {
		return nil, err
	}

	if changed {
		invalidateDays(ctx, uc.cache, uc.hours, ap.StartTime, ap.EndTime)

		uc.audit.Dispatch(audit.Event{
			Action:   "appointment_cancelled",
			Entity:   "appointment",
			EntityID: ap.ID,
		})
	}

	return ap, nil
}
