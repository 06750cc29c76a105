// Package stats buckets tasks into reporting periods and derives summary
// metrics, the tag breakdown and the hourly day gauge.
package stats

import (
	"slices"
	"strings"
	"time"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// Period names a reporting window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts today, week or month; empty means today.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	}
	return "", domain.Invalid(domain.ErrInvalidPeriod, s)
}

// TagStat is one row of the tag breakdown. Percent is relative to the tag
// with the largest summed duration.
type TagStat struct {
	Tag      string  `json:"tag"`
	Count    int     `json:"count"`
	Duration int     `json:"duration"`
	Percent  float64 `json:"percent"`
}

// Circular is the 24h ring: elapsed time of the reference day plus the
// scheduled minutes of the bucketed tasks.
type Circular struct {
	ElapsedMinutes   int     `json:"elapsed_minutes"`
	ScheduledMinutes int     `json:"scheduled_minutes"`
	FreeHours        float64 `json:"free_hours"`
	ElapsedPercent   float64 `json:"elapsed_percent"`
	ScheduledPercent float64 `json:"scheduled_percent"`
}

// Stats summarizes one period. Scheduled minutes use each task's own
// duration, not its effective duration.
type Stats struct {
	Period               Period    `json:"period"`
	From                 time.Time `json:"from"`
	To                   time.Time `json:"to"`
	Days                 int       `json:"days"`
	TotalTasks           int       `json:"total_tasks"`
	CompletedTasks       int       `json:"completed_tasks"`
	IncompleteTasks      int       `json:"incomplete_tasks"`
	ScheduledMinutes     int       `json:"scheduled_minutes"`
	ScheduledHours       float64   `json:"scheduled_hours"`
	AverageDurationHours float64   `json:"average_duration_hours"`
	AverageFreeHours     float64   `json:"average_free_hours"`
	CompletionRate       float64   `json:"completion_rate"`
	Tags                 []TagStat `json:"tags"`
	Circular             Circular  `json:"circular"`
}

// Aggregator computes statistics in one timezone.
type Aggregator struct {
	zone timeutil.Zone
}

func New(zone timeutil.Zone) Aggregator {
	return Aggregator{zone: zone}
}

// Window returns the [from, to) range of period around ref and its length in days.
func (a Aggregator) Window(period Period, ref time.Time) (time.Time, time.Time, int) {
	switch period {
	case PeriodWeek:
		from, to := a.zone.WeekWindow(ref)
		return from, to, 7
	case PeriodMonth:
		from, to := a.zone.MonthWindow(ref)
		return from, to, a.zone.DaysInMonth(ref)
	default:
		from := a.zone.StartOfDay(ref)
		return from, a.zone.NextDay(from), 1
	}
}

// Bucket keeps the tasks whose start time falls inside the window. Tasks
// without a start time never count toward a period.
func (a Aggregator) Bucket(tasks []domain.Task, period Period, ref time.Time) []domain.Task {
	from, to, _ := a.Window(period, ref)
	out := make([]domain.Task, 0)
	for _, t := range tasks {
		if t.StartTime == nil {
			continue
		}
		if !t.StartTime.Before(from) && t.StartTime.Before(to) {
			out = append(out, t)
		}
	}
	return out
}

// Aggregate buckets tasks for period around ref and derives the metrics.
// ref also acts as "now" for the circular gauge.
func (a Aggregator) Aggregate(tasks []domain.Task, period Period, ref time.Time) Stats {
	from, to, days := a.Window(period, ref)
	bucketed := a.Bucket(tasks, period, ref)

	s := Stats{
		Period:     period,
		From:       from,
		To:         to,
		Days:       days,
		TotalTasks: len(bucketed),
		Tags:       Tags(bucketed),
	}
	for i := range bucketed {
		if bucketed[i].Completed {
			s.CompletedTasks++
		}
		s.ScheduledMinutes += bucketed[i].DurationMinutes()
	}
	s.IncompleteTasks = s.TotalTasks - s.CompletedTasks
	s.ScheduledHours = float64(s.ScheduledMinutes) / 60
	s.AverageFreeHours = (24*float64(days) - s.ScheduledHours) / float64(days)
	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
		s.AverageDurationHours = float64(s.ScheduledMinutes) / float64(s.TotalTasks) / 60
	}
	s.Circular = circular(a.zone.MinutesSinceMidnight(ref), s.ScheduledMinutes)
	return s
}

func circular(elapsed, scheduled int) Circular {
	free := timeutil.MinutesPerDay - elapsed - scheduled
	return Circular{
		ElapsedMinutes:   elapsed,
		ScheduledMinutes: scheduled,
		FreeHours:        max(0, float64(free)/60),
		ElapsedPercent:   float64(elapsed) / timeutil.MinutesPerDay * 100,
		ScheduledPercent: float64(scheduled) / timeutil.MinutesPerDay * 100,
	}
}

// Tags groups tasks by every tag they carry, sorted by summed duration
// descending; ties keep first-seen order.
func Tags(tasks []domain.Task) []TagStat {
	index := map[string]int{}
	out := make([]TagStat, 0)
	for i := range tasks {
		for _, tag := range tasks[i].Tags {
			j, ok := index[tag]
			if !ok {
				j = len(out)
				index[tag] = j
				out = append(out, TagStat{Tag: tag})
			}
			out[j].Count++
			out[j].Duration += tasks[i].DurationMinutes()
		}
	}

	slices.SortStableFunc(out, func(a, b TagStat) int {
		return b.Duration - a.Duration
	})
	if len(out) > 0 && out[0].Duration > 0 {
		top := float64(out[0].Duration)
		for i := range out {
			out[i].Percent = float64(out[i].Duration) / top * 100
		}
	}
	return out
}
