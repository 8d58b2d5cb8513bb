package schedule

import (
	"testing"
	"time"
)

func TestMonthGridMarch2025(t *testing.T) {
	// March 1st 2025 is a Saturday: six leading empty slots, then 31 days.
	cells := MonthGrid(2025, time.March, nil)
	if len(cells) != 6+31 {
		t.Fatalf("unexpected cell count: %d", len(cells))
	}
	for i := 0; i < 6; i++ {
		if cells[i] != nil {
			t.Fatalf("expected nil leading cell at %d", i)
		}
	}
	if cells[6] == nil || cells[6].Day != 1 || cells[6].DateKey != "2025-03-01" {
		t.Fatalf("unexpected first day cell: %+v", cells[6])
	}
	if last := cells[len(cells)-1]; last == nil || last.Day != 31 {
		t.Fatalf("unexpected last day cell: %+v", last)
	}
}

func TestMonthGridLeapFebruary(t *testing.T) {
	cells := MonthGrid(2024, time.February, nil)
	var days int
	for _, c := range cells {
		if c != nil {
			days++
		}
	}
	if days != 29 {
		t.Fatalf("expected 29 day cells for Feb 2024, got %d", days)
	}

	cells = MonthGrid(2025, time.February, nil)
	days = 0
	for _, c := range cells {
		if c != nil {
			days++
		}
	}
	if days != 28 {
		t.Fatalf("expected 28 day cells for Feb 2025, got %d", days)
	}
}

func TestMonthGridFlagsScheduledDays(t *testing.T) {
	ix := SampleIndex()
	cells := MonthGrid(2025, time.October, ix)
	flagged := map[int]bool{}
	for _, c := range cells {
		if c != nil && c.HasSchedule {
			flagged[c.Day] = true
		}
	}
	for _, day := range []int{14, 15, 18} {
		if !flagged[day] {
			t.Fatalf("expected day %d flagged, got %v", day, flagged)
		}
	}
	if len(flagged) != 3 {
		t.Fatalf("unexpected flagged days: %v", flagged)
	}
}

func TestMonthNavigationYearBoundaries(t *testing.T) {
	if y, m := NextMonth(2025, time.December); y != 2026 || m != time.January {
		t.Fatalf("december roll-over: %d %v", y, m)
	}
	if y, m := PrevMonth(2026, time.January); y != 2025 || m != time.December {
		t.Fatalf("january roll-back: %d %v", y, m)
	}
	if y, m := NextMonth(2025, time.June); y != 2025 || m != time.July {
		t.Fatalf("mid-year next: %d %v", y, m)
	}
	if y, m := PrevMonth(2025, time.June); y != 2025 || m != time.May {
		t.Fatalf("mid-year prev: %d %v", y, m)
	}
}
