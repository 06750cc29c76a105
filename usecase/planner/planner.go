// Package planner is the host use case around the scheduling engine. It is
// the single writer of the Task Store and the other collections and saves
// a snapshot after every mutation.
package planner

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
	"github.com/mo-tomi/nowtask8/repository"
	"github.com/mo-tomi/nowtask8/usecase/duration"
	"github.com/mo-tomi/nowtask8/usecase/recurrence"
	"github.com/mo-tomi/nowtask8/usecase/stats"
	"github.com/mo-tomi/nowtask8/usecase/template"
)

type UseCase struct {
	mu sync.Mutex

	tasks    repository.TaskStore
	snapshot repository.SnapshotRepository
	zone     timeutil.Zone
	clock    timeutil.Clock
	newID    func() string
	logger   *zap.Logger

	generator    *recurrence.Generator
	durations    duration.Aggregator
	stats        stats.Aggregator
	instantiator *template.Instantiator

	routines  []domain.Routine
	presets   []domain.ShiftPreset
	shifts    domain.ShiftAssignments
	templates []domain.Template
	patterns  []domain.MultiDayPattern
}

type Option func(*UseCase)

// WithRollup selects the subtask duration rollup policy.
func WithRollup(r duration.Rollup) Option {
	return func(uc *UseCase) { uc.durations = duration.New(r) }
}

// WithIDs overrides id generation for every created record.
func WithIDs(fn func() string) Option {
	return func(uc *UseCase) { uc.newID = fn }
}

func New(tasks repository.TaskStore, snapshot repository.SnapshotRepository, zone timeutil.Zone, clock timeutil.Clock, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	uc := &UseCase{
		tasks:     tasks,
		snapshot:  snapshot,
		zone:      zone,
		clock:     clock,
		newID:     uuid.NewString,
		logger:    logger,
		durations: duration.New(duration.OneLevel),
		stats:     stats.New(zone),
		shifts:    domain.ShiftAssignments{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.generator = recurrence.New(zone, clock, logger.Named("recurrence"), recurrence.WithIDs(uc.newID))
	uc.instantiator = template.New(zone, clock, template.WithIDs(uc.newID))
	return uc
}

// Zone returns the timezone every date key is computed in.
func (uc *UseCase) Zone() timeutil.Zone {
	return uc.zone
}

// Today returns the current date key.
func (uc *UseCase) Today() string {
	return uc.zone.DateKey(uc.clock.Now())
}

// Load replaces in-memory state with the persisted snapshot.
func (uc *UseCase) Load(ctx context.Context) error {
	snap, err := uc.snapshot.Load(ctx)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.tasks.Replace(snap.Tasks)
	uc.routines = snap.Routines
	uc.presets = snap.ShiftPresets
	uc.shifts = snap.Shifts
	if uc.shifts == nil {
		uc.shifts = domain.ShiftAssignments{}
	}
	uc.templates = snap.Templates
	uc.patterns = snap.Patterns

	uc.logger.Info("snapshot loaded",
		zap.Int("tasks", len(snap.Tasks)),
		zap.Int("routines", len(snap.Routines)),
		zap.Int("shift_presets", len(snap.ShiftPresets)),
		zap.Int("templates", len(snap.Templates)),
	)
	return nil
}

// Snapshot returns a copy of the full state.
func (uc *UseCase) Snapshot() *domain.Snapshot {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.snapshotLocked()
}

func (uc *UseCase) snapshotLocked() *domain.Snapshot {
	snap := &domain.Snapshot{
		Tasks:        uc.tasks.All(),
		Routines:     make([]domain.Routine, len(uc.routines)),
		ShiftPresets: slices.Clone(uc.presets),
		Shifts:       uc.shifts.Clone(),
		Templates:    make([]domain.Template, len(uc.templates)),
		Patterns:     make([]domain.MultiDayPattern, len(uc.patterns)),
	}
	for i := range uc.routines {
		snap.Routines[i] = uc.routines[i].Clone()
	}
	for i := range uc.templates {
		snap.Templates[i] = uc.templates[i].Clone()
	}
	for i := range uc.patterns {
		snap.Patterns[i] = uc.patterns[i].Clone()
	}
	return snap
}

// persistLocked saves the snapshot. Failures are logged and not retried.
// Saves are detached from caller cancellation but keep its values.
func (uc *UseCase) persistLocked(ctx context.Context, reason string) {
	if uc.snapshot == nil {
		return
	}
	if err := uc.snapshot.Save(context.WithoutCancel(ctx), uc.snapshotLocked()); err != nil {
		uc.logger.Error("snapshot save failed", zap.String("after", reason), zap.Error(err))
	}
}

func (uc *UseCase) parseDate(key string) (time.Time, error) {
	day, err := uc.zone.ParseDateKey(key)
	if err != nil {
		return time.Time{}, domain.Invalid(domain.ErrInvalidDate, key)
	}
	return day, nil
}
