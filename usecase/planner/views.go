package planner

import (
	"time"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/usecase/calendar"
	"github.com/mo-tomi/nowtask8/usecase/duration"
	"github.com/mo-tomi/nowtask8/usecase/overlap"
	"github.com/mo-tomi/nowtask8/usecase/stats"
)

// TaskView is a task with its derived durations.
type TaskView struct {
	domain.Task
	EffectiveDuration int            `json:"effective_duration"`
	Gauge             duration.Gauge `json:"gauge"`
}

// GroupView is one overlap group of the timeline.
type GroupView struct {
	IsOverlap bool       `json:"is_overlap"`
	Timed     bool       `json:"timed"`
	Tasks     []TaskView `json:"tasks"`
}

// DayView is everything the timeline of one day renders.
type DayView struct {
	Date   string         `json:"date"`
	Shifts []string       `json:"shifts"`
	Groups []GroupView    `json:"groups"`
	Gauge  stats.DayGauge `json:"gauge"`
}

// DayView builds the timeline of dateKey.
func (uc *UseCase) DayView(dateKey string) (DayView, error) {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return DayView{}, err
	}
	key := uc.zone.DateKey(day)
	tasks := uc.tasks.TasksOnDay(key)

	uc.mu.Lock()
	shifts := uc.shifts.Names(key)
	uc.mu.Unlock()

	groups := overlap.Detect(tasks)
	view := DayView{
		Date:   key,
		Shifts: shifts,
		Groups: make([]GroupView, 0, len(groups)),
		Gauge:  uc.stats.DayGauge(tasks, day, uc.clock.Now()),
	}
	for _, g := range groups {
		gv := GroupView{IsOverlap: g.IsOverlap, Timed: g.Timed, Tasks: make([]TaskView, 0, len(g.Tasks))}
		for i := range g.Tasks {
			gv.Tasks = append(gv.Tasks, uc.taskView(&g.Tasks[i]))
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}

func (uc *UseCase) taskView(t *domain.Task) TaskView {
	return TaskView{
		Task:              *t,
		EffectiveDuration: uc.durations.Effective(t),
		Gauge:             uc.durations.Gauge(t),
	}
}

// Stats aggregates every task over period around ref. A zero ref means now.
func (uc *UseCase) Stats(period stats.Period, ref time.Time) stats.Stats {
	if ref.IsZero() {
		ref = uc.clock.Now()
	}
	return uc.stats.Aggregate(uc.tasks.All(), period, ref)
}

// Calendar builds the month grid.
func (uc *UseCase) Calendar(year int, month time.Month) (calendar.Month, error) {
	uc.mu.Lock()
	shifts := uc.shifts.Clone()
	uc.mu.Unlock()
	return calendar.Build(uc.zone, year, month, uc.tasks.All(), shifts, uc.clock.Now())
}
