// Package template instantiates tasks from templates and lays multi-day
// patterns out over consecutive dates.
package template

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

type Instantiator struct {
	zone  timeutil.Zone
	clock timeutil.Clock
	newID func() string
}

type Option func(*Instantiator)

// WithIDs overrides id generation.
func WithIDs(fn func() string) Option {
	return func(in *Instantiator) { in.newID = fn }
}

func New(zone timeutil.Zone, clock timeutil.Clock, opts ...Option) *Instantiator {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	in := &Instantiator{zone: zone, clock: clock, newID: uuid.NewString}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// FromTemplate builds a task on day. startTime ("HH:MM") overrides the
// template's own start; with neither the task is untimed.
func (in *Instantiator) FromTemplate(tpl domain.Template, day time.Time, startTime string) (domain.Task, error) {
	clock := strings.TrimSpace(startTime)
	if clock == "" {
		clock = tpl.StartTime
	}
	task := in.newTask(tpl.Name, in.zone.StartOfDay(day), tpl.Duration, tpl.Tags)
	if clock == "" {
		return task, nil
	}
	if err := in.schedule(&task, day, clock); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// SkippedEntry is a pattern entry that produced no task.
type SkippedEntry struct {
	Day    int    `json:"day"`
	Entry  int    `json:"entry"`
	Reason string `json:"reason"`
}

// Result of applying a pattern.
type Result struct {
	Tasks   []domain.Task  `json:"tasks"`
	Skipped []SkippedEntry `json:"skipped"`
}

const (
	ReasonNoName      = "no task name"
	ReasonInvalidTime = "malformed time of day"
)

// ApplyPattern creates, for the k-th day of p, tasks on start+k days at each
// entry's time. A template entry supplies name, duration and tags; an entry
// whose template is missing falls back to its own task name.
func (in *Instantiator) ApplyPattern(p domain.MultiDayPattern, templates []domain.Template, start time.Time) Result {
	res := Result{Tasks: []domain.Task{}, Skipped: []SkippedEntry{}}
	base := in.zone.StartOfDay(start)

	for k, day := range p.Days {
		date := in.zone.AddDays(base, k)
		for e, entry := range day.Entries {
			name := strings.TrimSpace(entry.TaskName)
			var (
				duration *int
				tags     []string
			)
			if entry.TemplateID != "" {
				if i := slices.IndexFunc(templates, func(t domain.Template) bool { return t.ID == entry.TemplateID }); i >= 0 {
					name = templates[i].Name
					duration = templates[i].Duration
					tags = templates[i].Tags
				}
			}
			if name == "" {
				res.Skipped = append(res.Skipped, SkippedEntry{Day: k, Entry: e, Reason: ReasonNoName})
				continue
			}

			task := in.newTask(name, date, duration, tags)
			if err := in.schedule(&task, date, entry.Time); err != nil {
				res.Skipped = append(res.Skipped, SkippedEntry{Day: k, Entry: e, Reason: ReasonInvalidTime})
				continue
			}
			res.Tasks = append(res.Tasks, task)
		}
	}
	return res
}

func (in *Instantiator) schedule(task *domain.Task, day time.Time, clock string) error {
	c, err := timeutil.ParseClock(clock)
	if err != nil {
		return domain.Invalid(domain.ErrInvalidClock, clock)
	}
	start := in.zone.At(day, c)
	task.StartTime = &start
	if task.Duration != nil && *task.Duration > 0 {
		end := timeutil.AddMinutes(start, *task.Duration)
		task.EndTime = &end
	}
	return nil
}

func (in *Instantiator) newTask(name string, day time.Time, duration *int, tags []string) domain.Task {
	now := in.clock.Now()
	created := day
	if in.zone.SameDay(now, day) {
		created = now
	}
	task := domain.Task{
		ID:        in.newID(),
		Name:      name,
		Priority:  domain.PriorityNone,
		Tags:      slices.Clone(tags),
		CreatedAt: created,
		UpdatedAt: created,
		Subtasks:  []domain.Subtask{},
	}
	if duration != nil {
		task.Duration = domain.Minutes(*duration)
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return task
}
