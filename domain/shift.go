package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// ShiftTag marks tasks synthesized from shift presets.
const ShiftTag = "shift"

// MaxShiftsPerDay caps how many presets may be applied to one date.
const MaxShiftsPerDay = 2

// ShiftPreset is a reusable named work-shift template.
type ShiftPreset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  string    `json:"start_time,omitempty"`
	EndTime    string    `json:"end_time,omitempty"`
	BreakTime  int       `json:"break_time"`
	CreateTask bool      `json:"create_task"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *ShiftPreset) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.StartTime = strings.TrimSpace(p.StartTime)
	p.EndTime = strings.TrimSpace(p.EndTime)
}

func (p *ShiftPreset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.BreakTime < 0 {
		return ErrInvalidDuration
	}
	for _, v := range []string{p.StartTime, p.EndTime} {
		if v == "" {
			continue
		}
		if _, err := timeutil.ParseClock(v); err != nil {
			return Invalid(ErrInvalidClock, v)
		}
	}
	return nil
}

// Apply snapshots the preset for storage in a shift assignment.
func (p *ShiftPreset) Apply() AppliedShift {
	return AppliedShift{
		PresetID:   p.ID,
		Name:       p.Name,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		BreakTime:  p.BreakTime,
		CreateTask: p.CreateTask,
	}
}

// AppliedShift is a preset as it was when applied to a date.
type AppliedShift struct {
	PresetID   string `json:"preset_id"`
	Name       string `json:"name"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	BreakTime  int    `json:"break_time"`
	CreateTask bool   `json:"create_task"`
}

// Timed reports whether both clock bounds are present.
func (s AppliedShift) Timed() bool {
	return s.StartTime != "" && s.EndTime != ""
}

// ShiftAssignments maps a date key to the presets applied on that date.
type ShiftAssignments map[string][]AppliedShift

func (a ShiftAssignments) For(dateKey string) []AppliedShift {
	if a == nil {
		return nil
	}
	return a[dateKey]
}

// Names lists the applied shift names for a date, in order.
func (a ShiftAssignments) Names(dateKey string) []string {
	shifts := a.For(dateKey)
	names := make([]string, 0, len(shifts))
	for _, s := range shifts {
		names = append(names, s.Name)
	}
	return names
}

func (a ShiftAssignments) Clone() ShiftAssignments {
	out := make(ShiftAssignments, len(a))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	return out
}
