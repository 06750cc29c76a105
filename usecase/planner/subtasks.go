package planner

import (
	"context"
	"strings"

	"github.com/mo-tomi/nowtask8/domain"
)

// AddSubtask inserts sub below parentID ("" for the task itself). Inserts
// past the depth limit fail with ErrSubtaskDepthExceeded and change nothing.
func (uc *UseCase) AddSubtask(ctx context.Context, taskID, parentID string, sub domain.Subtask) (domain.Task, error) {
	if sub.ID == "" {
		sub.ID = uc.newID()
	}
	uc.assignSubtaskIDs(sub.Subtasks)
	now := uc.clock.Now()

	return uc.editTask(ctx, taskID, "add subtask", func(t *domain.Task) error {
		if err := t.AddSubtask(parentID, sub); err != nil {
			return err
		}
		t.Touch(now)
		return nil
	})
}

// UpdateSubtask renames a subtask and replaces its duration.
func (uc *UseCase) UpdateSubtask(ctx context.Context, taskID, subtaskID, name string, minutes *int) (domain.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Task{}, domain.ErrEmptyName
	}
	if minutes != nil && *minutes < 0 {
		return domain.Task{}, domain.ErrInvalidDuration
	}
	now := uc.clock.Now()

	return uc.editTask(ctx, taskID, "update subtask", func(t *domain.Task) error {
		s, _ := t.FindSubtask(subtaskID)
		if s == nil {
			return domain.ErrSubtaskNotFound
		}
		s.Name = name
		s.Duration = minutes
		t.Touch(now)
		return nil
	})
}

func (uc *UseCase) RemoveSubtask(ctx context.Context, taskID, subtaskID string) (domain.Task, error) {
	now := uc.clock.Now()
	return uc.editTask(ctx, taskID, "remove subtask", func(t *domain.Task) error {
		if !t.RemoveSubtask(subtaskID) {
			return domain.ErrSubtaskNotFound
		}
		t.Touch(now)
		return nil
	})
}

func (uc *UseCase) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (domain.Task, error) {
	now := uc.clock.Now()
	return uc.editTask(ctx, taskID, "toggle subtask", func(t *domain.Task) error {
		s, _ := t.FindSubtask(subtaskID)
		if s == nil {
			return domain.ErrSubtaskNotFound
		}
		s.Completed = !s.Completed
		t.Touch(now)
		return nil
	})
}

func (uc *UseCase) editTask(ctx context.Context, taskID, reason string, fn func(*domain.Task) error) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	updated, err := uc.tasks.Update(taskID, fn)
	if err != nil {
		return domain.Task{}, err
	}
	uc.persistLocked(ctx, reason)
	return updated, nil
}

func (uc *UseCase) assignSubtaskIDs(subs []domain.Subtask) {
	for i := range subs {
		if subs[i].ID == "" {
			subs[i].ID = uc.newID()
		}
		if subs[i].Subtasks == nil {
			subs[i].Subtasks = []domain.Subtask{}
		}
		uc.assignSubtaskIDs(subs[i].Subtasks)
	}
}
