package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/assistant-calendar/internal/httperr"
	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

var day = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func newAppointment(start time.Time, minutes int) *models.Appointment {
	return &models.Appointment{
		ID:           uuid.NewString(),
		CustomerName: "Ada",
		StartTime:    start,
		EndTime:      start.Add(time.Duration(minutes) * time.Minute),
		DurationMin:  minutes,
		Status:       string(domain.StatusConfirmed),
		CreatedAt:    day,
		UpdatedAt:    day,
	}
}

func TestMemory_InsertRejectsOverlap(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	ctx := context.Background()

	if err := repo.InsertIfNoOverlap(ctx, newAppointment(day.Add(10*time.Hour), 30)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := repo.InsertIfNoOverlap(ctx, newAppointment(day.Add(10*time.Hour+15*time.Minute), 30))
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	if err := repo.InsertIfNoOverlap(ctx, newAppointment(day.Add(10*time.Hour+30*time.Minute), 30)); err != nil {
		t.Fatalf("adjacent insert failed: %v", err)
	}

	all, _ := repo.ListAppointments(ctx, day, day.Add(24*time.Hour))
	if len(all) != 2 {
		t.Fatalf("expected 2 stored appointments, got %d", len(all))
	}
}

func TestMemory_DuplicateIDIsStorageError(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	ctx := context.Background()

	ap := newAppointment(day.Add(9*time.Hour), 30)
	if err := repo.InsertIfNoOverlap(ctx, ap); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	dup := newAppointment(day.Add(12*time.Hour), 30)
	dup.ID = ap.ID
	if err := repo.InsertIfNoOverlap(ctx, dup); !httperr.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestMemory_ConcurrentInsertsSameInterval(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	ctx := context.Background()
	start := day.Add(14 * time.Hour)

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.InsertIfNoOverlap(ctx, newAppointment(start, 30))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrSlotTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, successes, conflicts)
	}
}

func TestMemory_NoOverlapInvariantUnderMixedLoad(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := day.Add(9*time.Hour + time.Duration(i%12)*15*time.Minute)
			_ = repo.InsertIfNoOverlap(ctx, newAppointment(start, 45))
		}(i)
	}
	wg.Wait()

	confirmed, _ := repo.FindOverlapping(ctx, day, day.Add(24*time.Hour))
	for i := range confirmed {
		for j := i + 1; j < len(confirmed); j++ {
			a, b := domain.IntervalOf(&confirmed[i]), domain.IntervalOf(&confirmed[j])
			if a.Overlaps(b) {
				t.Fatalf("overlapping confirmed appointments %s and %s", confirmed[i].ID, confirmed[j].ID)
			}
		}
	}
}

func TestMemory_CancelIsIdempotentAndFreesInterval(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	ctx := context.Background()
	now := day.Add(8 * time.Hour)

	ap := newAppointment(day.Add(10*time.Hour), 30)
	if err := repo.InsertIfNoOverlap(ctx, ap); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	first, changed, err := repo.Cancel(ctx, ap.ID, now)
	if err != nil || !changed || first.Status != string(domain.StatusCancelled) {
		t.Fatalf("unexpected first cancel result: %+v changed=%v err=%v", first, changed, err)
	}

	second, changed, err := repo.Cancel(ctx, ap.ID, now.Add(time.Minute))
	if err != nil || changed || second.Status != string(domain.StatusCancelled) {
		t.Fatalf("unexpected second cancel result: %+v changed=%v err=%v", second, changed, err)
	}
	if !second.UpdatedAt.Equal(now) {
		t.Fatalf("repeat cancel touched updated_at: %s", second.UpdatedAt)
	}

	if err := repo.InsertIfNoOverlap(ctx, newAppointment(day.Add(10*time.Hour), 30)); err != nil {
		t.Fatalf("expected the cancelled interval to be bookable, got %v", err)
	}

	if _, _, err := repo.Cancel(ctx, uuid.NewString(), now); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_ListAppointmentsInclusiveAndOrdered(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	ctx := context.Background()

	for _, h := range []int{15, 9, 12} {
		if err := repo.InsertIfNoOverlap(ctx, newAppointment(day.Add(time.Duration(h)*time.Hour), 30)); err != nil {
			t.Fatalf("insert %d failed: %v", h, err)
		}
	}

	got, err := repo.ListAppointments(ctx, day.Add(9*time.Hour), day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both bounds to be inclusive, got %d rows", len(got))
	}
	if got[0].StartTime.Hour() != 9 || got[1].StartTime.Hour() != 12 {
		t.Fatalf("unexpected order: %s, %s", got[0].StartTime, got[1].StartTime)
	}

	ap, err := repo.GetAppointment(ctx, got[0].ID)
	if err != nil || ap.ID != got[0].ID {
		t.Fatalf("get failed: %v", err)
	}
	if _, err := repo.GetAppointment(ctx, fmt.Sprintf("missing-%d", 1)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
