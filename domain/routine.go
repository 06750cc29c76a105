package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// RoutineTag marks tasks synthesized from routines.
const RoutineTag = "routine"

// Pattern is the recurrence rule of a routine.
type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
)

func (p Pattern) Valid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternMonthly:
		return true
	}
	return false
}

// Routine regenerates a recurring task on eligible days.
type Routine struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Duration     *int      `json:"duration,omitempty"`
	StartTime    string    `json:"start_time,omitempty"`
	Pattern      Pattern   `json:"pattern"`
	RepeatDays   []int     `json:"repeat_days"`
	ExcludeDates []string  `json:"exclude_dates"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var allWeekdays = []int{0, 1, 2, 3, 4, 5, 6}

// Normalize defaults an empty weekday set to every day and sorts it.
func (r *Routine) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.StartTime = strings.TrimSpace(r.StartTime)
	if r.Pattern == "" {
		r.Pattern = PatternDaily
	}
	if len(r.RepeatDays) == 0 {
		r.RepeatDays = slices.Clone(allWeekdays)
	}
	slices.Sort(r.RepeatDays)
	r.RepeatDays = slices.Compact(r.RepeatDays)
	if r.ExcludeDates == nil {
		r.ExcludeDates = []string{}
	}
}

func (r *Routine) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !r.Pattern.Valid() {
		return Invalid(ErrInvalidPattern, string(r.Pattern))
	}
	if r.Duration != nil && *r.Duration < 0 {
		return ErrInvalidDuration
	}
	if r.StartTime != "" {
		if _, err := timeutil.ParseClock(r.StartTime); err != nil {
			return Invalid(ErrInvalidClock, r.StartTime)
		}
	}
	for _, d := range r.RepeatDays {
		if d < 0 || d > 6 {
			return Invalid(ErrInvalidPayload, "repeat day out of range")
		}
	}
	for _, key := range r.ExcludeDates {
		if _, err := time.Parse(timeutil.DateKeyLayout, key); err != nil {
			return Invalid(ErrInvalidDate, key)
		}
	}
	return nil
}

func (r *Routine) Excludes(dateKey string) bool {
	return slices.Contains(r.ExcludeDates, dateKey)
}

func (r *Routine) RepeatsOn(day time.Weekday) bool {
	return slices.Contains(r.RepeatDays, int(day))
}

func (r Routine) Clone() Routine {
	out := r
	out.Duration = cloneInt(r.Duration)
	out.RepeatDays = slices.Clone(r.RepeatDays)
	out.ExcludeDates = slices.Clone(r.ExcludeDates)
	return out
}
