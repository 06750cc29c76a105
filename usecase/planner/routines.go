package planner

import (
	"context"
	"slices"
	"strings"

	"github.com/mo-tomi/nowtask8/domain"
)

func (uc *UseCase) ListRoutines() []domain.Routine {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.Routine, len(uc.routines))
	for i := range uc.routines {
		out[i] = uc.routines[i].Clone()
	}
	return out
}

func (uc *UseCase) CreateRoutine(ctx context.Context, r domain.Routine) (domain.Routine, error) {
	if r.ID == "" {
		r.ID = uc.newID()
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return domain.Routine{}, err
	}
	now := uc.clock.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.routineIndex(r.ID) >= 0 {
		return domain.Routine{}, domain.NewError(domain.ErrCodeConflict, "routine already exists")
	}
	uc.routines = append(uc.routines, r)
	uc.persistLocked(ctx, "create routine")
	return r.Clone(), nil
}

// UpdateRoutine replaces a routine's rule. Tasks already generated from it
// are left alone.
func (uc *UseCase) UpdateRoutine(ctx context.Context, id string, changes domain.Routine) (domain.Routine, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.routineIndex(id)
	if i < 0 {
		return domain.Routine{}, domain.ErrRoutineNotFound
	}

	next := changes.Clone()
	next.ID = id
	next.CreatedAt = uc.routines[i].CreatedAt
	if next.ExcludeDates == nil {
		next.ExcludeDates = slices.Clone(uc.routines[i].ExcludeDates)
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return domain.Routine{}, err
	}
	next.UpdatedAt = uc.clock.Now()
	uc.routines[i] = next
	uc.persistLocked(ctx, "update routine")
	return next.Clone(), nil
}

func (uc *UseCase) DeleteRoutine(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.routineIndex(id)
	if i < 0 {
		return domain.ErrRoutineNotFound
	}
	uc.routines = slices.Delete(uc.routines, i, i+1)
	uc.persistLocked(ctx, "delete routine")
	return nil
}

// AddExcludeDate stops the routine from generating on dateKey.
func (uc *UseCase) AddExcludeDate(ctx context.Context, id, dateKey string) (domain.Routine, error) {
	dateKey = strings.TrimSpace(dateKey)
	if _, err := uc.parseDate(dateKey); err != nil {
		return domain.Routine{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.routineIndex(id)
	if i < 0 {
		return domain.Routine{}, domain.ErrRoutineNotFound
	}
	r := &uc.routines[i]
	if r.Excludes(dateKey) {
		return domain.Routine{}, domain.ErrDuplicateExclude
	}
	r.ExcludeDates = append(r.ExcludeDates, dateKey)
	slices.Sort(r.ExcludeDates)
	r.UpdatedAt = uc.clock.Now()
	uc.persistLocked(ctx, "exclude date")
	return r.Clone(), nil
}

// RemoveExcludeDate is a no-op when the date was not excluded.
func (uc *UseCase) RemoveExcludeDate(ctx context.Context, id, dateKey string) (domain.Routine, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.routineIndex(id)
	if i < 0 {
		return domain.Routine{}, domain.ErrRoutineNotFound
	}
	r := &uc.routines[i]
	if j := slices.Index(r.ExcludeDates, dateKey); j >= 0 {
		r.ExcludeDates = slices.Delete(r.ExcludeDates, j, j+1)
		r.UpdatedAt = uc.clock.Now()
		uc.persistLocked(ctx, "include date")
	}
	return r.Clone(), nil
}

func (uc *UseCase) routineIndex(id string) int {
	return slices.IndexFunc(uc.routines, func(r domain.Routine) bool { return r.ID == id })
}
