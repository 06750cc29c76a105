// Package recurrence turns routines and shift assignments into concrete
// tasks for one calendar day. It never mutates its inputs; callers apply the
// returned Plan to the Task Store in a single step.
package recurrence

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

// Skip reasons reported in Plan.Skipped.
const (
	ReasonExcluded     = "excluded date"
	ReasonNotScheduled = "not scheduled on weekday"
	ReasonDuplicate    = "already generated"
	ReasonInvalidTime  = "malformed time of day"
	ReasonCalendarOnly = "calendar only"
	ReasonUnknown      = "unknown pattern"
)

// Source kinds reported in Skip.Kind.
const (
	KindRoutine = "routine"
	KindShift   = "shift"
)

// Skip records a routine or shift that produced no task.
type Skip struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Plan is the set of store changes for one day. Remove lists task ids that
// must be dropped before Add is inserted.
type Plan struct {
	Date    string        `json:"date"`
	Add     []domain.Task `json:"add"`
	Remove  []string      `json:"remove"`
	Skipped []Skip        `json:"skipped"`
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// Generator synthesizes recurring tasks.
type Generator struct {
	zone   timeutil.Zone
	clock  timeutil.Clock
	newID  func() string
	logger *zap.Logger
}

type Option func(*Generator)

// WithIDs overrides id generation.
func WithIDs(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

func New(zone timeutil.Zone, clock timeutil.Clock, logger *zap.Logger, opts ...Option) *Generator {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		zone:   zone,
		clock:  clock,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateForDay builds the plan for day. Shift tasks are only replaced when
// the date carries assignments; use ReplaceShifts to clear them.
func (g *Generator) GenerateForDay(day time.Time, routines []domain.Routine, shifts domain.ShiftAssignments, existing []domain.Task) Plan {
	day = g.zone.StartOfDay(day)
	key := g.zone.DateKey(day)
	plan := Plan{Date: key, Add: []domain.Task{}, Remove: []string{}, Skipped: []Skip{}}

	g.planRoutines(&plan, day, routines, existing)
	if applied := shifts.For(key); len(applied) > 0 {
		g.planShifts(&plan, day, applied, existing)
	}

	g.logger.Info("recurrence plan built",
		zap.String("date", key),
		zap.Int("added", len(plan.Add)),
		zap.Int("removed", len(plan.Remove)),
		zap.Int("skipped", len(plan.Skipped)),
	)
	return plan
}

// ReplaceShifts plans the full replace of shift tasks on day with those
// derived from applied, which may be empty.
func (g *Generator) ReplaceShifts(day time.Time, applied []domain.AppliedShift, existing []domain.Task) Plan {
	day = g.zone.StartOfDay(day)
	plan := Plan{Date: g.zone.DateKey(day), Add: []domain.Task{}, Remove: []string{}, Skipped: []Skip{}}
	g.planShifts(&plan, day, applied, existing)
	return plan
}

// Eligible reports whether r should produce a task on day, and why not.
func Eligible(r *domain.Routine, day time.Time, dateKey string) (bool, string) {
	if r.Excludes(dateKey) {
		return false, ReasonExcluded
	}
	switch r.Pattern {
	case domain.PatternDaily, "":
		return true, ""
	case domain.PatternWeekly:
		if r.RepeatsOn(day.Weekday()) {
			return true, ""
		}
		return false, ReasonNotScheduled
	case domain.PatternMonthly:
		// No day-of-month rule exists, so every day qualifies.
		return true, ""
	}
	return false, ReasonUnknown
}

func (g *Generator) planRoutines(plan *Plan, day time.Time, routines []domain.Routine, existing []domain.Task) {
	seen := map[string]struct{}{}
	for i := range existing {
		if existing[i].EffectiveDay(g.zone) == plan.Date {
			seen[existing[i].Name] = struct{}{}
		}
	}

	for i := range routines {
		r := &routines[i]
		if ok, reason := Eligible(r, day, plan.Date); !ok {
			g.skip(plan, KindRoutine, r.Name, reason)
			continue
		}
		if _, dup := seen[r.Name]; dup {
			g.skip(plan, KindRoutine, r.Name, ReasonDuplicate)
			continue
		}
		task, err := g.routineTask(r, day)
		if err != nil {
			g.skip(plan, KindRoutine, r.Name, ReasonInvalidTime)
			continue
		}
		seen[r.Name] = struct{}{}
		plan.Add = append(plan.Add, task)
	}
}

func (g *Generator) routineTask(r *domain.Routine, day time.Time) (domain.Task, error) {
	task := g.baseTask(r.Name, day, domain.RoutineTag)
	if r.Duration != nil {
		task.Duration = domain.Minutes(*r.Duration)
	}
	if r.StartTime == "" {
		return task, nil
	}

	clock, err := timeutil.ParseClock(r.StartTime)
	if err != nil {
		return domain.Task{}, err
	}
	start := g.zone.At(day, clock)
	task.StartTime = &start
	if r.Duration != nil && *r.Duration > 0 {
		end := timeutil.AddMinutes(start, *r.Duration)
		task.EndTime = &end
	}
	return task, nil
}

func (g *Generator) planShifts(plan *Plan, day time.Time, applied []domain.AppliedShift, existing []domain.Task) {
	desired := make([]domain.Task, 0, len(applied))
	for _, s := range applied {
		if !s.CreateTask {
			g.skip(plan, KindShift, s.Name, ReasonCalendarOnly)
			continue
		}
		task, err := g.ShiftTask(s, day)
		if err != nil {
			g.skip(plan, KindShift, s.Name, ReasonInvalidTime)
			continue
		}
		desired = append(desired, task)
	}

	var current []domain.Task
	for i := range existing {
		t := &existing[i]
		if t.HasTag(domain.ShiftTag) && t.EffectiveDay(g.zone) == plan.Date {
			current = append(current, *t)
		}
	}

	if sameShiftTasks(current, desired) {
		return
	}
	for _, t := range current {
		plan.Remove = append(plan.Remove, t.ID)
	}
	plan.Add = append(plan.Add, desired...)
}

// ShiftTask derives the task for an applied shift on day. An end time at or
// before the start rolls to the next day; the break is subtracted from the
// rounded interval and the result floored at zero.
func (g *Generator) ShiftTask(s domain.AppliedShift, day time.Time) (domain.Task, error) {
	day = g.zone.StartOfDay(day)
	task := g.baseTask(s.Name, day, domain.ShiftTag)
	if !s.Timed() {
		return task, nil
	}

	startClock, err := timeutil.ParseClock(s.StartTime)
	if err != nil {
		return domain.Task{}, err
	}
	endClock, err := timeutil.ParseClock(s.EndTime)
	if err != nil {
		return domain.Task{}, err
	}

	start := g.zone.At(day, startClock)
	end := g.zone.At(day, endClock)
	if !end.After(start) {
		end = g.zone.At(g.zone.NextDay(day), endClock)
	}
	duration := max(timeutil.RoundedDiffMinutes(end, start)-s.BreakTime, 0)

	task.StartTime = &start
	task.EndTime = &end
	task.Duration = domain.Minutes(duration)
	return task, nil
}

// baseTask stamps untimed tasks so they land on day through the createdAt
// fallback: now when day is today, otherwise day's midnight.
func (g *Generator) baseTask(name string, day time.Time, tag string) domain.Task {
	now := g.clock.Now()
	created := day
	if g.zone.SameDay(now, day) {
		created = now
	}
	return domain.Task{
		ID:        g.newID(),
		Name:      name,
		Priority:  domain.PriorityNone,
		Tags:      []string{tag},
		CreatedAt: created,
		UpdatedAt: created,
		Subtasks:  []domain.Subtask{},
	}
}

func (g *Generator) skip(plan *Plan, kind, name, reason string) {
	plan.Skipped = append(plan.Skipped, Skip{Kind: kind, Name: name, Reason: reason})
	g.logger.Debug("recurrence skipped",
		zap.String("date", plan.Date),
		zap.String("kind", kind),
		zap.String("name", name),
		zap.String("reason", reason),
	)
}

type shiftSignature struct {
	name       string
	start, end int64
	duration   int
}

func signature(t *domain.Task) shiftSignature {
	sig := shiftSignature{name: t.Name, start: -1, end: -1, duration: t.DurationMinutes()}
	if t.StartTime != nil {
		sig.start = t.StartTime.Unix()
	}
	if t.EndTime != nil {
		sig.end = t.EndTime.Unix()
	}
	return sig
}

// sameShiftTasks compares the ordered shift tasks by what generation controls.
func sameShiftTasks(current, desired []domain.Task) bool {
	if len(current) != len(desired) {
		return false
	}
	a := make([]shiftSignature, len(current))
	b := make([]shiftSignature, len(desired))
	for i := range current {
		a[i] = signature(&current[i])
		b[i] = signature(&desired[i])
	}
	return slices.Equal(a, b)
}
