package appointment

import (
	"time"

	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel moves ap to cancelled. It reports false when ap was already
// cancelled, in which case ap is left untouched.
func Cancel(ap *models.Appointment, now time.Time) (bool, error) {
	current := Status(ap.Status)
	if err := CanCancel(current); err != nil {
		return false, err
	}
	if current == StatusCancelled {
		return false, nil
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.UpdatedAt = now
	return true, nil
}

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses the half-open rule: a.Start < b.End && b.Start < a.End.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}

// DaysTouched lists the calendar days (YYYY-MM-DD in loc) that [start, end) covers.
func DaysTouched(start, end time.Time, loc *time.Location) []string {
	start = start.In(loc)
	last := end.In(loc)
	if last.After(start) {
		last = last.Add(-time.Nanosecond)
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	var days []string
	for !day.After(last) {
		days = append(days, day.Format(DateLayout))
		day = day.AddDate(0, 0, 1)
	}
	return days
}
