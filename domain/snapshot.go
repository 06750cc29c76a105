package domain

// Snapshot is everything the persistence collaborator loads and saves.
type Snapshot struct {
	Tasks        []Task            `json:"tasks"`
	Routines     []Routine         `json:"routines"`
	ShiftPresets []ShiftPreset     `json:"shift_presets"`
	Shifts       ShiftAssignments  `json:"shifts"`
	Templates    []Template        `json:"templates"`
	Patterns     []MultiDayPattern `json:"patterns"`
}

// Collection keys shared by every storage backend.
const (
	CollectionTasks        = "tasks"
	CollectionRoutines     = "routines"
	CollectionShiftPresets = "shift_presets"
	CollectionShifts       = "shifts"
	CollectionTemplates    = "templates"
	CollectionPatterns     = "patterns"
)

// Collections lists the keys in a stable order.
func Collections() []string {
	return []string{
		CollectionTasks,
		CollectionRoutines,
		CollectionShiftPresets,
		CollectionShifts,
		CollectionTemplates,
		CollectionPatterns,
	}
}

// IsEmpty reports whether nothing has been stored yet.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.Tasks) == 0 && len(s.Routines) == 0 && len(s.ShiftPresets) == 0 &&
		len(s.Shifts) == 0 && len(s.Templates) == 0 && len(s.Patterns) == 0)
}
