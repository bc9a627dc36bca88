package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/dto"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
)

type ListAppointments struct {
	repo  domain.Repository
	hours domain.WorkingHours
}

func NewListAppointments(
	repo domain.Repository,
	hours domain.WorkingHours,
) *ListAppointments {
	return &ListAppointments{
		repo:  repo,
		hours: hours,
	}
}

// Execute returns appointments of every status whose start time falls in
// [from, to], ordered by start time.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	from string,
	to string,
) ([]dto.AppointmentDTO, error) {

	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, httperr.ErrValidation("missing_range", "from and to are required.")
	}

	loc := uc.hours.Location()

	start, err := parseBound(from, loc, false)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_from", "from must be an ISO 8601 timestamp or date.")
	}
	end, err := parseBound(to, loc, true)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_to", "to must be an ISO 8601 timestamp or date.")
	}
	if end.Before(start) {
		return nil, httperr.ErrValidation("invalid_range", "to must not be before from.")
	}

	appointments, err := uc.repo.ListAppointments(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments, loc), nil
}
