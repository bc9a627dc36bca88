package appointment

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"

	DefaultSlotStep    = 30 * time.Minute
	DefaultDurationMin = 30
	// MaxDurationMin caps a single appointment at one day.
	MaxDurationMin = 24 * 60
)

// WorkingHours is the daily window in which slots may be offered. The same
// window applies to every day of the week.
type WorkingHours struct {
	startMin int
	endMin   int
	step     time.Duration
	loc      *time.Location
}

// NewWorkingHours parses "HH:MM" bounds. end must be after start.
func NewWorkingHours(start, end string, step time.Duration, loc *time.Location) (WorkingHours, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return WorkingHours{}, fmt.Errorf("working hours start %q: %w", start, err)
	}
	endMin, err := parseClock(end)
	if err != nil {
		return WorkingHours{}, fmt.Errorf("working hours end %q: %w", end, err)
	}
	if endMin <= startMin {
		return WorkingHours{}, fmt.Errorf("working hours end %s must be after start %s", end, start)
	}
	if step <= 0 {
		step = DefaultSlotStep
	}
	if loc == nil {
		loc = time.UTC
	}

	return WorkingHours{startMin: startMin, endMin: endMin, step: step, loc: loc}, nil
}

func parseClock(hm string) (int, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (wh WorkingHours) Location() *time.Location { return wh.loc }

func (wh WorkingHours) Step() time.Duration { return wh.step }

func (wh WorkingHours) Start() string { return formatClock(wh.startMin) }

func (wh WorkingHours) End() string { return formatClock(wh.endMin) }

func formatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Window returns the working window for the calendar day of day, in the
// reference location.
func (wh WorkingHours) Window(day time.Time) (time.Time, time.Time) {
	d := day.In(wh.loc)
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, wh.loc)
	at := func(min int) time.Time {
		return time.Date(midnight.Year(), midnight.Month(), midnight.Day(), min/60, min%60, 0, 0, wh.loc)
	}
	return at(wh.startMin), at(wh.endMin)
}

// Day returns [00:00, next 00:00) of the calendar day of day.
func (wh WorkingHours) Day(day time.Time) (time.Time, time.Time) {
	d := day.In(wh.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, wh.loc)
	return start, start.AddDate(0, 0, 1)
}

// Contains reports whether [start, end) fits inside the window of start's day.
func (wh WorkingHours) Contains(start, end time.Time) bool {
	workStart, workEnd := wh.Window(start)
	return !start.Before(workStart) && !end.After(workEnd)
}

// ParseDate parses YYYY-MM-DD as midnight in the reference location.
func (wh WorkingHours) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, wh.loc)
}
