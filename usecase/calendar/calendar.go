// Package calendar lays out a month as a Sunday-first grid of whole weeks.
package calendar

import (
	"time"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// Cell is one day of the grid.
type Cell struct {
	Date      string       `json:"date"`
	Day       int          `json:"day"`
	Weekday   time.Weekday `json:"weekday"`
	InMonth   bool         `json:"in_month"`
	Today     bool         `json:"today"`
	TaskCount int          `json:"task_count"`
	Shifts    []string     `json:"shifts"`
}

// Month is the grid for one calendar month; len(Cells) is a multiple of 7.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks int        `json:"weeks"`
	Cells []Cell     `json:"cells"`
}

// Build lays out year/month padded with days from the adjacent months.
// Task counts use each task's effective day.
func Build(zone timeutil.Zone, year int, month time.Month, tasks []domain.Task, shifts domain.ShiftAssignments, now time.Time) (Month, error) {
	if month < time.January || month > time.December {
		return Month{}, domain.Invalid(domain.ErrInvalidDate, "month out of range")
	}

	counts := map[string]int{}
	for i := range tasks {
		counts[tasks[i].EffectiveDay(zone)]++
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, zone.Location())
	lead := int(first.Weekday())
	days := zone.DaysInMonth(first)
	total := (lead + days + 6) / 7 * 7
	today := zone.DateKey(now)

	m := Month{Year: year, Month: month, Weeks: total / 7, Cells: make([]Cell, 0, total)}
	start := zone.AddDays(first, -lead)
	for i := range total {
		d := zone.AddDays(start, i)
		key := zone.DateKey(d)
		names := shifts.Names(key)
		m.Cells = append(m.Cells, Cell{
			Date:      key,
			Day:       d.Day(),
			Weekday:   d.Weekday(),
			InMonth:   d.Month() == month,
			Today:     key == today,
			TaskCount: counts[key],
			Shifts:    names,
		})
	}
	return m, nil
}
