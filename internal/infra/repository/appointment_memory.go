package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

// AppointmentMemoryRepository keeps the calendar in process memory. A single
// write lock makes the overlap check and the insert one step.
type AppointmentMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.Appointment
	order []string
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{
		byID: make(map[string]models.Appointment),
	}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *AppointmentMemoryRepository) ListAppointments(
	_ context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Appointment{}
	for _, id := range r.order {
		ap := r.byID[id]
		if ap.StartTime.Before(from) || ap.StartTime.After(to) {
			continue
		}
		out = append(out, ap)
	}

	sortByStart(out)
	return out, nil
}

func (r *AppointmentMemoryRepository) FindOverlapping(
	_ context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.overlappingLocked(domain.Interval{Start: start, End: end}), nil
}

func (r *AppointmentMemoryRepository) GetAppointment(
	_ context.Context,
	id string,
) (*models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *AppointmentMemoryRepository) InsertIfNoOverlap(
	_ context.Context,
	ap *models.Appointment,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[ap.ID]; exists {
		return httperr.ErrStorage("insert appointment", fmt.Errorf("duplicate id %s", ap.ID))
	}

	if ap.Status == string(domain.StatusConfirmed) {
		if len(r.overlappingLocked(domain.IntervalOf(ap))) > 0 {
			return domain.ErrSlotTaken
		}
	}

	r.byID[ap.ID] = *ap
	r.order = append(r.order, ap.ID)
	return nil
}

func (r *AppointmentMemoryRepository) Cancel(
	_ context.Context,
	id string,
	now time.Time,
) (*models.Appointment, bool, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.byID[id]
	if !ok {
		return nil, false, domain.ErrNotFound
	}

	changed, err := domain.Cancel(&ap, now)
	if err != nil {
		return nil, false, err
	}
	if changed {
		r.byID[id] = ap
	}
	return &ap, changed, nil
}

func (r *AppointmentMemoryRepository) overlappingLocked(iv domain.Interval) []models.Appointment {
	out := []models.Appointment{}
	for _, id := range r.order {
		ap := r.byID[id]
		if ap.Status != string(domain.StatusConfirmed) {
			continue
		}
		if iv.Overlaps(domain.IntervalOf(&ap)) {
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out
}

func sortByStart(aps []models.Appointment) {
	sort.SliceStable(aps, func(i, j int) bool {
		return aps[i].StartTime.Before(aps[j].StartTime)
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
