package planner

import (
	"context"
	"strings"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/repository"
)

// CreateTask validates and stores a new task.
func (uc *UseCase) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID == "" {
		task.ID = uc.newID()
	}
	task.Normalize()
	uc.assignSubtaskIDs(task.Subtasks)
	if err := task.Validate(); err != nil {
		return domain.Task{}, err
	}
	task.Priority = task.Priority.OrNone()

	now := uc.clock.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Completed {
		task.CompletedAt = &now
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.tasks.Add(task); err != nil {
		return domain.Task{}, err
	}
	uc.persistLocked(ctx, "create task")
	return task.Clone(), nil
}

// UpdateTask replaces the editable fields of a task (name, times, duration,
// priority, tags and completion). Subtasks are edited separately.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, changes domain.Task) (domain.Task, error) {
	now := uc.clock.Now()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	updated, err := uc.tasks.Update(id, func(t *domain.Task) error {
		t.Name = changes.Name
		t.StartTime = changes.StartTime
		t.EndTime = changes.EndTime
		t.Duration = changes.Duration
		t.Priority = changes.Priority.OrNone()
		t.Tags = changes.Tags
		t.Normalize()
		if err := t.Validate(); err != nil {
			return err
		}
		t.SetCompleted(changes.Completed, now)
		t.Touch(now)
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	uc.persistLocked(ctx, "update task")
	return updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.tasks.Remove(id); err != nil {
		return err
	}
	uc.persistLocked(ctx, "delete task")
	return nil
}

// ToggleComplete flips completion, stamping or clearing completedAt.
func (uc *UseCase) ToggleComplete(ctx context.Context, id string) (domain.Task, error) {
	now := uc.clock.Now()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	updated, err := uc.tasks.Update(id, func(t *domain.Task) error {
		t.SetCompleted(!t.Completed, now)
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	uc.persistLocked(ctx, "toggle task")
	return updated, nil
}

func (uc *UseCase) GetTask(id string) (domain.Task, error) {
	return uc.tasks.Find(id)
}

func (uc *UseCase) ListTasks(filter repository.TaskFilter) []domain.Task {
	return uc.tasks.Match(filter)
}

// TasksOnDay returns the tasks whose effective day is dateKey.
func (uc *UseCase) TasksOnDay(dateKey string) ([]domain.Task, error) {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return nil, err
	}
	return uc.tasks.TasksOnDay(uc.zone.DateKey(day)), nil
}

// GroupByDate lists active tasks grouped by day and completed tasks apart.
func (uc *UseCase) GroupByDate(filter repository.TaskFilter) ([]repository.DateGroup, []domain.Task) {
	return uc.tasks.GroupByDate(filter)
}

// Tags lists every distinct tag in first-seen order.
func (uc *UseCase) Tags() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range uc.tasks.All() {
		for _, tag := range t.Tags {
			tag = strings.TrimSpace(tag)
			if _, ok := seen[tag]; ok || tag == "" {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
