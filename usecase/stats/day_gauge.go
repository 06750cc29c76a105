package stats

import (
	"time"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// SlotState classifies one hour of the day gauge.
type SlotState string

const (
	SlotElapsed   SlotState = "elapsed"
	SlotCurrent   SlotState = "current"
	SlotScheduled SlotState = "scheduled"
	SlotFree      SlotState = "free"
)

type Slot struct {
	Hour  int       `json:"hour"`
	State SlotState `json:"state"`
}

// DayGauge is the hourly view of one day relative to now.
type DayGauge struct {
	Date                 string  `json:"date"`
	Slots                []Slot  `json:"slots"`
	ElapsedMinutes       int     `json:"elapsed_minutes"`
	ScheduledMinutes     int     `json:"scheduled_minutes"`
	RemainingFreeMinutes int     `json:"remaining_free_minutes"`
	RemainingFreeHours   float64 `json:"remaining_free_hours"`
}

// DayGauge classifies the 24 hours of day. tasks are the day's tasks (by
// the Task Store day rule); only incomplete ones count as scheduled. A timed
// task covers its start hour up to, not including, its end hour, and one
// hour when it has no end.
func (a Aggregator) DayGauge(tasks []domain.Task, day, now time.Time) DayGauge {
	dayStart := a.zone.StartOfDay(day)
	key := a.zone.DateKey(dayStart)

	elapsed, currentHour := 0, -1
	switch today := a.zone.DateKey(now); {
	case key < today:
		elapsed = timeutil.MinutesPerDay
		currentHour = 24
	case key == today:
		elapsed = a.zone.MinutesSinceMidnight(now)
		currentHour = a.zone.In(now).Hour()
	}

	scheduledHours := [24]bool{}
	scheduled := 0
	for i := range tasks {
		t := &tasks[i]
		if t.Completed {
			continue
		}
		scheduled += t.DurationMinutes()
		if t.StartTime == nil {
			continue
		}
		startHour := a.zone.In(*t.StartTime).Hour()
		endHour := startHour + 1
		if t.EndTime != nil {
			if a.zone.SameDay(*t.EndTime, dayStart) {
				endHour = a.zone.In(*t.EndTime).Hour()
			} else if t.EndTime.After(*t.StartTime) {
				endHour = 24
			}
		}
		for h := startHour; h < endHour && h < 24; h++ {
			scheduledHours[h] = true
		}
	}

	g := DayGauge{
		Date:             key,
		Slots:            make([]Slot, 24),
		ElapsedMinutes:   elapsed,
		ScheduledMinutes: scheduled,
	}
	for h := range 24 {
		state := SlotFree
		switch {
		case h == currentHour:
			state = SlotCurrent
		case h < currentHour:
			state = SlotElapsed
		case scheduledHours[h]:
			state = SlotScheduled
		}
		g.Slots[h] = Slot{Hour: h, State: state}
	}
	g.RemainingFreeMinutes = timeutil.MinutesPerDay - elapsed - scheduled
	g.RemainingFreeHours = max(0, float64(g.RemainingFreeMinutes)/60)
	return g
}
