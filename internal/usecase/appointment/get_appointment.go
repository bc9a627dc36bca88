package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/dto"
)

type GetAppointment struct {
	repo  domain.Repository
	hours domain.WorkingHours
}

func NewGetAppointment(
	repo domain.Repository,
	hours domain.WorkingHours,
) *GetAppointment {
	return &GetAppointment{
		repo:  repo,
		hours: hours,
	}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	appointmentID string,
) (*dto.AppointmentDTO, error) {

	id := strings.TrimSpace(appointmentID)
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	out := dto.FromAppointment(ap, uc.hours.Location())
	return &out, nil
}
