// Package memory holds the in-memory Task Store and a snapshot repository
// that keeps everything in process.
package memory

import (
	"slices"
	"sync"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
	"github.com/mo-tomi/nowtask8/repository"
)

var _ repository.TaskStore = (*TaskStore)(nil)

// TaskStore is the in-memory collection of task records. Every read returns
// copies so callers never alias stored state.
type TaskStore struct {
	mu    sync.RWMutex
	zone  timeutil.Zone
	tasks []domain.Task
}

func NewTaskStore(zone timeutil.Zone) *TaskStore {
	return &TaskStore{zone: zone}
}

// Zone returns the timezone used for day lookups.
func (s *TaskStore) Zone() timeutil.Zone {
	return s.zone
}

// Replace swaps the whole collection, used when loading a snapshot.
func (s *TaskStore) Replace(tasks []domain.Task) {
	cloned := cloneAll(tasks)
	s.mu.Lock()
	s.tasks = cloned
	s.mu.Unlock()
}

// Add appends a task. An existing id is rejected.
func (s *TaskStore) Add(task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(task.ID) >= 0 {
		return domain.NewError(domain.ErrCodeConflict, "task id already exists")
	}
	s.tasks = append(s.tasks, task.Clone())
	return nil
}

// Remove deletes the task by id.
func (s *TaskStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return nil
}

// Find returns a copy of the task with id.
func (s *TaskStore) Find(id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return s.tasks[i].Clone(), nil
}

// Update runs fn against a working copy of the task and stores the result
// only when fn succeeds.
func (s *TaskStore) Update(id string, fn func(*domain.Task) error) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	working := s.tasks[i].Clone()
	if err := fn(&working); err != nil {
		return domain.Task{}, err
	}
	working.ID = id
	s.tasks[i] = working
	return working.Clone(), nil
}

// Filter returns copies of the tasks matching pred, in storage order.
func (s *TaskStore) Filter(pred func(*domain.Task) bool) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0)
	for i := range s.tasks {
		if pred == nil || pred(&s.tasks[i]) {
			out = append(out, s.tasks[i].Clone())
		}
	}
	return out
}

// Match applies a TaskFilter.
func (s *TaskStore) Match(f repository.TaskFilter) []domain.Task {
	return s.Filter(f.Match)
}

// TasksOnDay selects by start-time date key, falling back to createdAt.
func (s *TaskStore) TasksOnDay(dateKey string) []domain.Task {
	return s.Filter(func(t *domain.Task) bool {
		return t.EffectiveDay(s.zone) == dateKey
	})
}

// All returns a copy of every task.
func (s *TaskStore) All() []domain.Task {
	return s.Filter(nil)
}

func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Apply removes the listed ids and appends add under one lock, so readers
// never observe the intermediate state. Unknown ids are ignored.
func (s *TaskStore) Apply(remove []string, add []domain.Task) {
	cloned := cloneAll(add)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(remove) > 0 {
		s.tasks = slices.DeleteFunc(s.tasks, func(t domain.Task) bool {
			return slices.Contains(remove, t.ID)
		})
	}
	s.tasks = append(s.tasks, cloned...)
}

// GroupByDate splits matching tasks into active groups ordered by date key
// and a flat list of completed tasks.
func (s *TaskStore) GroupByDate(f repository.TaskFilter) ([]repository.DateGroup, []domain.Task) {
	matched := s.Match(f)
	index := map[string]int{}
	groups := make([]repository.DateGroup, 0)
	completed := make([]domain.Task, 0)
	for _, t := range matched {
		if t.Completed {
			completed = append(completed, t)
			continue
		}
		key := t.EffectiveDay(s.zone)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, repository.DateGroup{DateKey: key})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	slices.SortStableFunc(groups, func(a, b repository.DateGroup) int {
		switch {
		case a.DateKey < b.DateKey:
			return -1
		case a.DateKey > b.DateKey:
			return 1
		}
		return 0
	})
	for i := range groups {
		slices.SortStableFunc(groups[i].Tasks, compareStart)
	}
	return groups, completed
}

// compareStart orders timed tasks by start, untimed ones last.
func compareStart(a, b domain.Task) int {
	switch {
	case a.StartTime == nil && b.StartTime == nil:
		return 0
	case a.StartTime == nil:
		return 1
	case b.StartTime == nil:
		return -1
	}
	return a.StartTime.Compare(*b.StartTime)
}

func (s *TaskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

func cloneAll(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}
