package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mo-tomi/nowtask8/assets"
	"github.com/mo-tomi/nowtask8/domain"
)

// Seed holds the defaults installed into an empty store.
type Seed struct {
	Routines     []SeedRoutine  `yaml:"routines"`
	ShiftPresets []SeedPreset   `yaml:"shift_presets"`
	Templates    []SeedTemplate `yaml:"templates"`
}

type SeedRoutine struct {
	Name       string         `yaml:"name"`
	StartTime  string         `yaml:"start_time"`
	Duration   *int           `yaml:"duration"`
	Pattern    domain.Pattern `yaml:"pattern"`
	RepeatDays []int          `yaml:"repeat_days"`
}

type SeedPreset struct {
	Name       string `yaml:"name"`
	StartTime  string `yaml:"start_time"`
	EndTime    string `yaml:"end_time"`
	BreakTime  int    `yaml:"break_time"`
	CreateTask bool   `yaml:"create_task"`
}

type SeedTemplate struct {
	Name            string   `yaml:"name"`
	Category        string   `yaml:"category"`
	Duration        *int     `yaml:"duration"`
	StartTime       string   `yaml:"start_time"`
	Tags            []string `yaml:"tags"`
	AddFromCalendar bool     `yaml:"add_from_calendar"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}

// LoadDefaultSeed returns the embedded defaults.
func LoadDefaultSeed() (Seed, error) {
	return ParseSeed(assets.Seed)
}

// SeedDefaults installs seed when nothing has been stored yet. It reports
// whether anything was installed.
func (uc *UseCase) SeedDefaults(ctx context.Context, seed Seed) (bool, error) {
	now := uc.clock.Now()

	routines := make([]domain.Routine, 0, len(seed.Routines))
	for _, s := range seed.Routines {
		r := domain.Routine{
			ID:         uc.newID(),
			Name:       s.Name,
			StartTime:  s.StartTime,
			Duration:   s.Duration,
			Pattern:    s.Pattern,
			RepeatDays: s.RepeatDays,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		r.Normalize()
		if err := r.Validate(); err != nil {
			return false, fmt.Errorf("seed routine %q: %w", s.Name, err)
		}
		routines = append(routines, r)
	}

	presets := make([]domain.ShiftPreset, 0, len(seed.ShiftPresets))
	for i, s := range seed.ShiftPresets {
		p := domain.ShiftPreset{
			ID:         uc.newID(),
			Name:       s.Name,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			BreakTime:  s.BreakTime,
			CreateTask: s.CreateTask,
			Order:      i + 1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			return false, fmt.Errorf("seed preset %q: %w", s.Name, err)
		}
		presets = append(presets, p)
	}

	templates := make([]domain.Template, 0, len(seed.Templates))
	for _, s := range seed.Templates {
		t := domain.Template{
			ID:              uc.newID(),
			Name:            s.Name,
			Category:        s.Category,
			Duration:        s.Duration,
			StartTime:       s.StartTime,
			Tags:            s.Tags,
			AddFromCalendar: s.AddFromCalendar,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		t.Normalize()
		if err := t.Validate(); err != nil {
			return false, fmt.Errorf("seed template %q: %w", s.Name, err)
		}
		templates = append(templates, t)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.snapshotLocked().IsEmpty() {
		return false, nil
	}
	uc.routines = routines
	uc.presets = presets
	uc.templates = templates
	uc.persistLocked(ctx, "seed defaults")

	uc.logger.Info("default data seeded",
		zap.Int("routines", len(routines)),
		zap.Int("shift_presets", len(presets)),
		zap.Int("templates", len(templates)),
	)
	return true, nil
}
