package planner

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/usecase/recurrence"
)

// ListPresets returns presets ordered for display.
func (uc *UseCase) ListPresets() []domain.ShiftPreset {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := slices.Clone(uc.presets)
	slices.SortStableFunc(out, func(a, b domain.ShiftPreset) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

func (uc *UseCase) CreatePreset(ctx context.Context, p domain.ShiftPreset) (domain.ShiftPreset, error) {
	if p.ID == "" {
		p.ID = uc.newID()
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.ShiftPreset{}, err
	}
	now := uc.clock.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.presetIndex(p.ID) >= 0 {
		return domain.ShiftPreset{}, domain.NewError(domain.ErrCodeConflict, "shift preset already exists")
	}
	if p.Order == 0 {
		p.Order = len(uc.presets) + 1
	}
	uc.presets = append(uc.presets, p)
	uc.persistLocked(ctx, "create preset")
	return p, nil
}

// UpdatePreset edits a preset. Dates it was already applied to keep their
// snapshot of the old values.
func (uc *UseCase) UpdatePreset(ctx context.Context, id string, changes domain.ShiftPreset) (domain.ShiftPreset, error) {
	changes.Normalize()
	if err := changes.Validate(); err != nil {
		return domain.ShiftPreset{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.presetIndex(id)
	if i < 0 {
		return domain.ShiftPreset{}, domain.ErrPresetNotFound
	}
	changes.ID = id
	changes.CreatedAt = uc.presets[i].CreatedAt
	changes.UpdatedAt = uc.clock.Now()
	if changes.Order == 0 {
		changes.Order = uc.presets[i].Order
	}
	uc.presets[i] = changes
	uc.persistLocked(ctx, "update preset")
	return changes, nil
}

func (uc *UseCase) DeletePreset(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.presetIndex(id)
	if i < 0 {
		return domain.ErrPresetNotFound
	}
	uc.presets = slices.Delete(uc.presets, i, i+1)
	uc.persistLocked(ctx, "delete preset")
	return nil
}

// Shifts returns the presets applied to dateKey.
func (uc *UseCase) Shifts(dateKey string) ([]domain.AppliedShift, error) {
	if _, err := uc.parseDate(dateKey); err != nil {
		return nil, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return slices.Clone(uc.shifts.For(dateKey)), nil
}

// AssignShift appends a preset to a date, at most MaxShiftsPerDay, and
// rebuilds that date's shift tasks.
func (uc *UseCase) AssignShift(ctx context.Context, dateKey, presetID string) ([]domain.AppliedShift, error) {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.presetIndex(presetID)
	if i < 0 {
		return nil, domain.ErrPresetNotFound
	}
	current := uc.shifts.For(dateKey)
	if len(current) >= domain.MaxShiftsPerDay {
		return nil, domain.ErrShiftLimitReached
	}
	next := append(slices.Clone(current), uc.presets[i].Apply())
	uc.setShiftsLocked(ctx, day, dateKey, next)
	return slices.Clone(next), nil
}

// SetShifts replaces every assignment on a date.
func (uc *UseCase) SetShifts(ctx context.Context, dateKey string, presetIDs []string) ([]domain.AppliedShift, error) {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return nil, err
	}
	if len(presetIDs) > domain.MaxShiftsPerDay {
		return nil, domain.ErrShiftLimitReached
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	next := make([]domain.AppliedShift, 0, len(presetIDs))
	for _, id := range presetIDs {
		i := uc.presetIndex(id)
		if i < 0 {
			return nil, domain.ErrPresetNotFound
		}
		next = append(next, uc.presets[i].Apply())
	}
	uc.setShiftsLocked(ctx, day, dateKey, next)
	return slices.Clone(next), nil
}

// ClearShifts drops every assignment on a date and its shift tasks.
func (uc *UseCase) ClearShifts(ctx context.Context, dateKey string) error {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.setShiftsLocked(ctx, day, dateKey, nil)
	return nil
}

func (uc *UseCase) setShiftsLocked(ctx context.Context, day time.Time, dateKey string, applied []domain.AppliedShift) {
	if len(applied) == 0 {
		delete(uc.shifts, dateKey)
	} else {
		uc.shifts[dateKey] = applied
	}
	plan := uc.generator.ReplaceShifts(day, applied, uc.tasks.TasksOnDay(dateKey))
	uc.tasks.Apply(plan.Remove, plan.Add)
	uc.persistLocked(ctx, "set shifts")
}

// GenerateForDay creates the day's routine and shift tasks. Running it twice
// for the same day adds nothing the second time.
func (uc *UseCase) GenerateForDay(ctx context.Context, day time.Time) recurrence.Plan {
	day = uc.zone.StartOfDay(day)
	key := uc.zone.DateKey(day)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	plan := uc.generator.GenerateForDay(day, uc.routines, uc.shifts, uc.tasks.TasksOnDay(key))
	if plan.Empty() {
		return plan
	}
	uc.tasks.Apply(plan.Remove, plan.Add)
	uc.persistLocked(ctx, "generate")
	uc.logger.Info("recurring tasks generated",
		zap.String("date", key),
		zap.Int("added", len(plan.Add)),
		zap.Int("removed", len(plan.Remove)),
	)
	return plan
}

func (uc *UseCase) GenerateForDate(ctx context.Context, dateKey string) (recurrence.Plan, error) {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return recurrence.Plan{}, err
	}
	return uc.GenerateForDay(ctx, day), nil
}

func (uc *UseCase) presetIndex(id string) int {
	return slices.IndexFunc(uc.presets, func(p domain.ShiftPreset) bool { return p.ID == id })
}
