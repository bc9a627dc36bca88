package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/assistant-calendar/internal/audit"
	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/models"
	"github.com/BruksfildServices01/assistant-calendar/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// CreateAppointmentInput is a booking request. CustomerName, StartTime and
// DurationMin are required; Phone and Notes may be empty.
type CreateAppointmentInput struct {
	CustomerName string
	Phone        string
	StartTime    string
	DurationMin  int
	Notes        string
}

type BookingPolicy struct {
	EnforceWorkingHours bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	hours  domain.WorkingHours
	policy BookingPolicy
	cache  domain.SlotCache
	audit  *audit.Dispatcher
	now    timezone.Clock
}

func NewCreateAppointment(
	repo domain.Repository,
	hours domain.WorkingHours,
	policy BookingPolicy,
	cache domain.SlotCache,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		hours:  hours,
		policy: policy,
		cache:  cache,
		audit:  audit,
		now:    now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Required fields
	// --------------------------------------------------
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, httperr.ErrValidation("missing_customer_name", "customer_name is required.")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		return nil, httperr.ErrValidation("missing_start_time", "start_time is required.")
	}
	if in.DurationMin <= 0 || in.DurationMin > domain.MaxDurationMin {
		return nil, httperr.ErrValidation("invalid_duration", "duration_min must be between 1 and 1440.")
	}

	start, err := parseTimestamp(in.StartTime, uc.hours.Location())
	if err != nil {
		return nil, httperr.ErrValidation("invalid_start_time", "start_time must be an ISO 8601 timestamp.")
	}
	end := start.Add(time.Duration(in.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 2. Working hours (optional policy)
	// --------------------------------------------------
	if uc.policy.EnforceWorkingHours && !uc.hours.Contains(start, end) {
		return nil, httperr.ErrValidation("outside_working_hours", "Requested time is outside working hours.")
	}

	// --------------------------------------------------
	// 3. Atomic conflict check + insert
	// --------------------------------------------------
	now := uc.now()
	ap := &models.Appointment{
		ID:           uuid.NewString(),
		CustomerName: name,
		Phone:        strings.TrimSpace(in.Phone),
		StartTime:    start,
		EndTime:      end,
		DurationMin:  in.DurationMin,
		Status:       string(domain.InitialStatus()),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.InsertIfNoOverlap(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			uc.audit.Dispatch(audit.Event{
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"start_time": start,
					"end_time":   end,
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. Side channels
	// --------------------------------------------------
	invalidateDays(ctx, uc.cache, uc.hours, start, end)

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"start_time":   start,
			"duration_min": in.DurationMin,
		},
	})

	return ap, nil
}
