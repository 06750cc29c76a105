package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// Template is a reusable task blueprint.
type Template struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	Duration        *int      `json:"duration,omitempty"`
	StartTime       string    `json:"start_time,omitempty"`
	Tags            []string  `json:"tags"`
	AddFromCalendar bool      `json:"add_from_calendar"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t *Template) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Category = strings.TrimSpace(t.Category)
	t.StartTime = strings.TrimSpace(t.StartTime)
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

func (t *Template) Validate() error {
	if t.Name == "" {
		return ErrEmptyName
	}
	if t.Duration != nil && *t.Duration < 0 {
		return ErrInvalidDuration
	}
	if t.StartTime != "" {
		if _, err := timeutil.ParseClock(t.StartTime); err != nil {
			return Invalid(ErrInvalidClock, t.StartTime)
		}
	}
	return nil
}

func (t Template) Clone() Template {
	out := t
	out.Duration = cloneInt(t.Duration)
	out.Tags = slices.Clone(t.Tags)
	return out
}

// MultiDayPattern lays out tasks over consecutive days, e.g. a shift rotation.
type MultiDayPattern struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Days      []DayPattern `json:"days"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DayPattern is one day of a multi-day pattern.
type DayPattern struct {
	Label   string         `json:"label,omitempty"`
	Entries []PatternEntry `json:"entries"`
}

// PatternEntry schedules a task at Time, named by a template or directly.
type PatternEntry struct {
	Time       string `json:"time"`
	TemplateID string `json:"template_id,omitempty"`
	TaskName   string `json:"task_name,omitempty"`
}

func (p *MultiDayPattern) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Days) == 0 {
		return Invalid(ErrInvalidPayload, "pattern needs at least one day")
	}
	return nil
}

func (p MultiDayPattern) Clone() MultiDayPattern {
	out := p
	out.Days = make([]DayPattern, len(p.Days))
	for i, d := range p.Days {
		out.Days[i] = DayPattern{Label: d.Label, Entries: slices.Clone(d.Entries)}
	}
	return out
}
