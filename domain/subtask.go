package domain

import (
	"strings"
)

// MaxSubtaskDepth bounds the tree below a task: depth 0 is the task itself,
// depth 1 its direct subtasks.
const MaxSubtaskDepth = 5

// Subtask is a nested unit of work owned exclusively by its parent.
type Subtask struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	Duration  *int      `json:"duration,omitempty"`
	Subtasks  []Subtask `json:"subtasks"`
}

// DurationMinutes returns the subtask's own duration, 0 when unset.
func (s *Subtask) DurationMinutes() int {
	if s.Duration == nil {
		return 0
	}
	return *s.Duration
}

// TreeDepth returns how many levels a subtask list adds below its owner.
func TreeDepth(subs []Subtask) int {
	depth := 0
	for i := range subs {
		if d := 1 + TreeDepth(subs[i].Subtasks); d > depth {
			depth = d
		}
	}
	return depth
}

// Depth returns the maximum subtask depth below the task.
func (t *Task) Depth() int {
	return TreeDepth(t.Subtasks)
}

// AddSubtask inserts sub under parentID ("" for the task itself). Insertions
// that would push any node past MaxSubtaskDepth are rejected and leave the
// tree untouched.
func (t *Task) AddSubtask(parentID string, sub Subtask) error {
	if strings.TrimSpace(sub.Name) == "" {
		return ErrEmptyName
	}
	if sub.Duration != nil && *sub.Duration < 0 {
		return ErrInvalidDuration
	}

	list, parentDepth := &t.Subtasks, 0
	if parentID != "" {
		parent, depth := t.FindSubtask(parentID)
		if parent == nil {
			return ErrSubtaskNotFound
		}
		list, parentDepth = &parent.Subtasks, depth
	}

	if parentDepth+1+TreeDepth(sub.Subtasks) > MaxSubtaskDepth {
		return ErrSubtaskDepthExceeded
	}
	sub.Name = strings.TrimSpace(sub.Name)
	if sub.Subtasks == nil {
		sub.Subtasks = []Subtask{}
	}
	*list = append(*list, sub)
	return nil
}

// FindSubtask returns the subtask with id and its depth, or nil.
func (t *Task) FindSubtask(id string) (*Subtask, int) {
	return findSubtask(t.Subtasks, id, 1)
}

func findSubtask(subs []Subtask, id string, depth int) (*Subtask, int) {
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], depth
		}
		if found, d := findSubtask(subs[i].Subtasks, id, depth+1); found != nil {
			return found, d
		}
	}
	return nil, 0
}

// RemoveSubtask deletes the subtask with id together with its children.
func (t *Task) RemoveSubtask(id string) bool {
	return removeSubtask(&t.Subtasks, id)
}

func removeSubtask(subs *[]Subtask, id string) bool {
	for i := range *subs {
		if (*subs)[i].ID == id {
			*subs = append((*subs)[:i], (*subs)[i+1:]...)
			return true
		}
		if removeSubtask(&(*subs)[i].Subtasks, id) {
			return true
		}
	}
	return false
}

func validateSubtasks(subs []Subtask, depth int) error {
	for i := range subs {
		if depth > MaxSubtaskDepth {
			return ErrSubtaskDepthExceeded
		}
		if strings.TrimSpace(subs[i].Name) == "" {
			return ErrEmptyName
		}
		if subs[i].Duration != nil && *subs[i].Duration < 0 {
			return ErrInvalidDuration
		}
		if err := validateSubtasks(subs[i].Subtasks, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func cloneSubtasks(subs []Subtask) []Subtask {
	if subs == nil {
		return nil
	}
	out := make([]Subtask, len(subs))
	for i, s := range subs {
		out[i] = s
		out[i].Duration = cloneInt(s.Duration)
		out[i].Subtasks = cloneSubtasks(s.Subtasks)
	}
	return out
}
