package appointment

import "time"

type AvailabilityInput struct {
	Date        string
	DurationMin int
}

type TimeSlot struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

type AvailabilityResult struct {
	Date        string     `json:"date"`
	DurationMin int        `json:"duration_min"`
	Slots       []TimeSlot `json:"slots"`
}

// FreeSlots walks the step grid from windowStart and returns every
// [t, t+duration) that fits in the window, starts strictly after now, and
// overlaps none of busy. The result is ascending and never nil.
func FreeSlots(
	windowStart time.Time,
	windowEnd time.Time,
	duration time.Duration,
	step time.Duration,
	busy []Interval,
	now time.Time,
) []TimeSlot {

	slots := []TimeSlot{}
	if duration <= 0 || step <= 0 || !windowEnd.After(windowStart) {
		return slots
	}

	for cur := windowStart; !cur.Add(duration).After(windowEnd); cur = cur.Add(step) {
		candidate := Interval{Start: cur, End: cur.Add(duration)}

		if !cur.After(now) {
			continue
		}
		if overlapsAny(candidate, busy) {
			continue
		}

		slots = append(slots, TimeSlot{Start: candidate.Start, End: candidate.End})
	}

	return slots
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// FutureOnly drops slots that no longer start strictly after now.
func FutureOnly(slots []TimeSlot, now time.Time) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Start.After(now) {
			out = append(out, s)
		}
	}
	return out
}
