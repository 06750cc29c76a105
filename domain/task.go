package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// Priority is the user-assigned urgency label of a task.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps a label to a Priority; the empty string means none.
func ParsePriority(label string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(label)))
	if p == "" {
		return PriorityNone, nil
	}
	if !p.Valid() {
		return "", Invalid(ErrInvalidPriority, label)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// OrNone treats an unset priority as none for filtering.
func (p Priority) OrNone() Priority {
	if p == "" {
		return PriorityNone
	}
	return p
}

// Task represents a user-visible unit of work, optionally time-boxed.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Tags        []string   `json:"tags"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Subtasks    []Subtask  `json:"subtasks"`
}

// Minutes returns a pointer to m, for optional duration fields.
func Minutes(m int) *int {
	return &m
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// Validate checks the invariants enforced at the mutation boundary.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.Duration != nil && *t.Duration < 0 {
		return ErrInvalidDuration
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return Invalid(ErrInvalidPriority, string(t.Priority))
	}
	return validateSubtasks(t.Subtasks, 1)
}

// Normalize drops derived fields that cannot be interpreted and fills empty collections.
func (t *Task) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	if t.StartTime == nil {
		t.EndTime = nil
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	if !t.Completed {
		t.CompletedAt = nil
	}
}

// Interval reports the task's time range. Tasks missing either bound, or
// whose end precedes their start, have no computable interval.
func (t *Task) Interval() (time.Time, time.Time, bool) {
	if t.StartTime == nil || t.EndTime == nil {
		return time.Time{}, time.Time{}, false
	}
	if t.EndTime.Before(*t.StartTime) {
		return time.Time{}, time.Time{}, false
	}
	return *t.StartTime, *t.EndTime, true
}

// EffectiveDay is the date key used for day lookups: start time when set,
// otherwise creation time.
func (t *Task) EffectiveDay(z timeutil.Zone) string {
	if t.StartTime != nil {
		return z.DateKey(*t.StartTime)
	}
	return z.DateKey(t.CreatedAt)
}

// DurationMinutes returns the task's own duration, 0 when unset.
func (t *Task) DurationMinutes() int {
	if t.Duration == nil {
		return 0
	}
	return *t.Duration
}

func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

func (t *Task) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
}

func (t *Task) Touch(now time.Time) {
	t.UpdatedAt = now
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

// SetCompleted stamps completedAt only on the transition to completed and
// clears it when un-completing.
func (t *Task) SetCompleted(done bool, now time.Time) {
	if done == t.Completed {
		return
	}
	t.Completed = done
	if done {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.Touch(now)
}

// Clone returns a deep copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	out := t
	out.StartTime = cloneTime(t.StartTime)
	out.EndTime = cloneTime(t.EndTime)
	out.CompletedAt = cloneTime(t.CompletedAt)
	out.Duration = cloneInt(t.Duration)
	out.Tags = slices.Clone(t.Tags)
	out.Subtasks = cloneSubtasks(t.Subtasks)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
