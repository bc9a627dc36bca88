package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/assistant-calendar/internal/models"
)

func mustHours(t *testing.T, start, end string) WorkingHours {
	t.Helper()
	wh, err := NewWorkingHours(start, end, 30*time.Minute, time.UTC)
	if err != nil {
		t.Fatalf("NewWorkingHours failed: %v", err)
	}
	return wh
}

func TestFreeSlots_FullDay(t *testing.T) {
	wh := mustHours(t, "09:00", "18:00")
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	start, end := wh.Window(day)

	slots := FreeSlots(start, end, 30*time.Minute, wh.Step(), nil, day.Add(8*time.Hour))
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(day.Add(9 * time.Hour)) {
		t.Fatalf("expected first slot 09:00, got %s", slots[0].Start.Format(time.RFC3339))
	}
	last := slots[len(slots)-1]
	if !last.Start.Equal(day.Add(17*time.Hour+30*time.Minute)) || !last.End.Equal(day.Add(18*time.Hour)) {
		t.Fatalf("expected last slot 17:30-18:00, got %s-%s", last.Start.Format("15:04"), last.End.Format("15:04"))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.After(slots[i-1].Start) {
			t.Fatal("slots are not ascending")
		}
	}
}

func TestFreeSlots_SkipsPastAndCurrentInstant(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	end := day.Add(11 * time.Hour)

	// now == 10:00 exactly: the 10:00 slot is not strictly in the future.
	slots := FreeSlots(start, end, 30*time.Minute, 30*time.Minute, nil, day.Add(10*time.Hour))
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Start.Equal(day.Add(10*time.Hour + 30*time.Minute)) {
		t.Fatalf("expected 10:30, got %s", slots[0].Start.Format("15:04"))
	}
}

func TestFreeSlots_ExcludesOverlapsButKeepsAdjacent(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	end := day.Add(12 * time.Hour)

	busy := []Interval{
		{Start: day.Add(10*time.Hour + 15*time.Minute), End: day.Add(10*time.Hour + 45*time.Minute)},
	}

	slots := FreeSlots(start, end, 60*time.Minute, 30*time.Minute, busy, day)

	got := make([]string, 0, len(slots))
	for _, s := range slots {
		got = append(got, s.Start.Format("15:04"))
	}
	// 09:30, 10:00 and 10:30 overlap the busy 10:15-10:45 interval.
	want := []string{"09:00", "11:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFreeSlots_DurationLongerThanWindow(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	slots := FreeSlots(day.Add(9*time.Hour), day.Add(10*time.Hour), 90*time.Minute, 30*time.Minute, nil, day)
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected an empty non-nil list, got %v", slots)
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(30 * time.Minute)}

	cases := []struct {
		name string
		b    Interval
		want bool
	}{
		{"identical", a, true},
		{"partial", Interval{Start: base.Add(15 * time.Minute), End: base.Add(45 * time.Minute)}, true},
		{"contained", Interval{Start: base.Add(5 * time.Minute), End: base.Add(10 * time.Minute)}, true},
		{"adjacent after", Interval{Start: base.Add(30 * time.Minute), End: base.Add(60 * time.Minute)}, false},
		{"adjacent before", Interval{Start: base.Add(-30 * time.Minute), End: base}, false},
	}
	for _, tc := range cases {
		if got := a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
		if got := tc.b.Overlaps(a); got != tc.want {
			t.Errorf("%s (swapped): expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestWorkingHours(t *testing.T) {
	if _, err := NewWorkingHours("18:00", "09:00", 0, nil); err == nil {
		t.Fatal("expected an error when end is before start")
	}
	if _, err := NewWorkingHours("9am", "18:00", 0, nil); err == nil {
		t.Fatal("expected an error for a malformed start")
	}

	loc := time.FixedZone("BRT", -3*60*60)
	wh, err := NewWorkingHours("09:00", "18:00", 0, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wh.Step() != DefaultSlotStep {
		t.Fatalf("expected default step, got %s", wh.Step())
	}

	// 11:00 UTC is 08:00 in BRT, so the window is that same BRT day.
	start, end := wh.Window(time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC))
	if start.Hour() != 9 || end.Hour() != 18 || start.Location() != loc {
		t.Fatalf("unexpected window %s - %s", start, end)
	}

	inside := time.Date(2025, 6, 10, 17, 30, 0, 0, loc)
	if !wh.Contains(inside, inside.Add(30*time.Minute)) {
		t.Fatal("expected 17:30-18:00 to be within working hours")
	}
	if wh.Contains(inside, inside.Add(31*time.Minute)) {
		t.Fatal("expected 17:30-18:01 to be outside working hours")
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	changed, err := Cancel(ap, now)
	if err != nil || !changed {
		t.Fatalf("expected first cancel to change state, got changed=%v err=%v", changed, err)
	}
	if ap.Status != string(StatusCancelled) || ap.CancelledAt == nil || !ap.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected appointment after cancel: %+v", ap)
	}

	changed, err = Cancel(ap, now.Add(time.Hour))
	if err != nil || changed {
		t.Fatalf("expected repeat cancel to be a no-op, got changed=%v err=%v", changed, err)
	}
	if !ap.UpdatedAt.Equal(now) {
		t.Fatal("repeat cancel must not touch updated_at")
	}

	if _, err := Cancel(&models.Appointment{Status: "archived"}, now); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestDaysTouched(t *testing.T) {
	start := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)

	days := DaysTouched(start, start.Add(time.Hour), time.UTC)
	if len(days) != 2 || days[0] != "2025-06-10" || days[1] != "2025-06-11" {
		t.Fatalf("unexpected days %v", days)
	}

	days = DaysTouched(start, start.Add(30*time.Minute), time.UTC)
	if len(days) != 1 || days[0] != "2025-06-10" {
		t.Fatalf("an interval ending at midnight should touch one day, got %v", days)
	}
}
