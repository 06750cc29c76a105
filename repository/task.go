package repository

import (
	"slices"
	"strings"

	"github.com/mo-tomi/nowtask8/domain"
)

// Status is the completion dimension of a task filter.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

// TaskFilter composes its non-empty dimensions with logical AND; an empty
// dimension imposes no constraint.
type TaskFilter struct {
	Search     string
	Priorities []domain.Priority
	Tags       []string
	Statuses   []Status
}

// Match reports whether task satisfies every non-empty dimension.
func (f TaskFilter) Match(task *domain.Task) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(task.Name), strings.ToLower(q)) {
			return false
		}
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, task.Priority.OrNone()) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(task.Tags, func(tag string) bool {
		return slices.Contains(f.Tags, tag)
	}) {
		return false
	}
	if len(f.Statuses) > 0 {
		status := StatusIncomplete
		if task.Completed {
			status = StatusCompleted
		}
		if !slices.Contains(f.Statuses, status) {
			return false
		}
	}
	return true
}

// IsZero reports whether the filter has no constraints at all.
func (f TaskFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && len(f.Priorities) == 0 && len(f.Tags) == 0 && len(f.Statuses) == 0
}

// DateGroup is the set of active tasks sharing an effective day.
type DateGroup struct {
	DateKey string        `json:"date"`
	Tasks   []domain.Task `json:"tasks"`
}

// TaskStore is the in-memory task collection. Reads return copies; Apply
// removes and inserts as one step.
type TaskStore interface {
	Replace(tasks []domain.Task)
	Add(task domain.Task) error
	Remove(id string) error
	Find(id string) (domain.Task, error)
	Update(id string, fn func(*domain.Task) error) (domain.Task, error)
	Filter(pred func(*domain.Task) bool) []domain.Task
	Match(f TaskFilter) []domain.Task
	TasksOnDay(dateKey string) []domain.Task
	All() []domain.Task
	Apply(remove []string, add []domain.Task)
	GroupByDate(f TaskFilter) ([]DateGroup, []domain.Task)
}
