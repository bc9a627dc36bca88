package dto

import (
	"time"

	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

// AppointmentDTO is the wire shape of an appointment, with every timestamp
// rendered in the calendar's reference timezone.
type AppointmentDTO struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	DurationMin  int        `json:"duration_min"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func FromAppointment(ap *models.Appointment, loc *time.Location) AppointmentDTO {
	out := AppointmentDTO{
		ID:           ap.ID,
		CustomerName: ap.CustomerName,
		Phone:        ap.Phone,
		StartTime:    ap.StartTime.In(loc),
		EndTime:      ap.EndTime.In(loc),
		DurationMin:  ap.DurationMin,
		Status:       ap.Status,
		Notes:        ap.Notes,
		CreatedAt:    ap.CreatedAt.In(loc),
		UpdatedAt:    ap.UpdatedAt.In(loc),
	}
	if ap.CancelledAt != nil {
		c := ap.CancelledAt.In(loc)
		out.CancelledAt = &c
	}
	return out
}

func FromAppointments(aps []models.Appointment, loc *time.Location) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, FromAppointment(&aps[i], loc))
	}
	return out
}
