package schedule

import "time"

// Cell is one slot in the month grid. Leading slots before day 1 are nil; a
// non-nil cell maps to a concrete date.
type Cell struct {
	Day         int    `json:"day"`
	DateKey     string `json:"date_key"`
	HasSchedule bool   `json:"has_schedule"`
}

// MonthGrid emits the display sequence for a month: one nil per weekday slot
// before day 1 (Sunday = 0), then one cell per day. Month lengths and leap
// years come from the standard calendar arithmetic in time.Date, which
// normalizes day 0 of the next month to the last day of this one. The final
// week is left short; no trailing padding is emitted.
func MonthGrid(year int, month time.Month, ix *Index) []*Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	cells := make([]*Cell, 0, int(first.Weekday())+lastDay)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, nil)
	}
	for day := 1; day <= lastDay; day++ {
		key := DateKey(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		cells = append(cells, &Cell{
			Day:         day,
			DateKey:     key,
			HasSchedule: ix != nil && ix.Has(key),
		})
	}
	return cells
}

// NextMonth moves the reference one month forward, rolling December into
// January of the next year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// PrevMonth moves the reference one month back, rolling January into December
// of the previous year.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
