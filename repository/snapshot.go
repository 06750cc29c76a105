package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mo-tomi/nowtask8/domain"
)

// SnapshotRepository is the persistence collaborator. Load on an empty
// backend returns an empty snapshot rather than an error.
type SnapshotRepository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	Ping(ctx context.Context) error
}

// EncodeSnapshot renders each collection as its own JSON document.
func EncodeSnapshot(s *domain.Snapshot) (map[string][]byte, error) {
	if s == nil {
		return nil, domain.ErrInvalidPayload
	}
	values := map[string]any{
		domain.CollectionTasks:        nonNil(s.Tasks),
		domain.CollectionRoutines:     nonNil(s.Routines),
		domain.CollectionShiftPresets: nonNil(s.ShiftPresets),
		domain.CollectionShifts:       s.Shifts,
		domain.CollectionTemplates:    nonNil(s.Templates),
		domain.CollectionPatterns:     nonNil(s.Patterns),
	}
	if s.Shifts == nil {
		values[domain.CollectionShifts] = domain.ShiftAssignments{}
	}

	out := make(map[string][]byte, len(values))
	for key, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot; missing keys stay empty.
func DecodeSnapshot(docs map[string][]byte) (*domain.Snapshot, error) {
	s := &domain.Snapshot{Shifts: domain.ShiftAssignments{}}
	targets := map[string]any{
		domain.CollectionTasks:        &s.Tasks,
		domain.CollectionRoutines:     &s.Routines,
		domain.CollectionShiftPresets: &s.ShiftPresets,
		domain.CollectionShifts:       &s.Shifts,
		domain.CollectionTemplates:    &s.Templates,
		domain.CollectionPatterns:     &s.Patterns,
	}
	for key, target := range targets {
		raw, ok := docs[key]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	if s.Shifts == nil {
		s.Shifts = domain.ShiftAssignments{}
	}
	return s, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
