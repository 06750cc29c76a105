package planner

import (
	"context"
	"slices"
	"strings"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/usecase/template"
)

func (uc *UseCase) ListTemplates() []domain.Template {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.Template, len(uc.templates))
	for i := range uc.templates {
		out[i] = uc.templates[i].Clone()
	}
	return out
}

func (uc *UseCase) CreateTemplate(ctx context.Context, tpl domain.Template) (domain.Template, error) {
	if tpl.ID == "" {
		tpl.ID = uc.newID()
	}
	tpl.Normalize()
	if err := tpl.Validate(); err != nil {
		return domain.Template{}, err
	}
	now := uc.clock.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.templateIndex(tpl.ID) >= 0 {
		return domain.Template{}, domain.NewError(domain.ErrCodeConflict, "template already exists")
	}
	uc.templates = append(uc.templates, tpl)
	uc.persistLocked(ctx, "create template")
	return tpl.Clone(), nil
}

func (uc *UseCase) UpdateTemplate(ctx context.Context, id string, changes domain.Template) (domain.Template, error) {
	changes.Normalize()
	if err := changes.Validate(); err != nil {
		return domain.Template{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.templateIndex(id)
	if i < 0 {
		return domain.Template{}, domain.ErrTemplateNotFound
	}
	changes.ID = id
	changes.CreatedAt = uc.templates[i].CreatedAt
	changes.UpdatedAt = uc.clock.Now()
	uc.templates[i] = changes.Clone()
	uc.persistLocked(ctx, "update template")
	return changes, nil
}

func (uc *UseCase) DeleteTemplate(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.templateIndex(id)
	if i < 0 {
		return domain.ErrTemplateNotFound
	}
	uc.templates = slices.Delete(uc.templates, i, i+1)
	uc.persistLocked(ctx, "delete template")
	return nil
}

// ApplyTemplate adds a task from a template on dateKey. An empty startTime
// keeps the template's own start.
func (uc *UseCase) ApplyTemplate(ctx context.Context, id, dateKey, startTime string) (domain.Task, error) {
	day, err := uc.parseDate(dateKey)
	if err != nil {
		return domain.Task{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.templateIndex(id)
	if i < 0 {
		return domain.Task{}, domain.ErrTemplateNotFound
	}
	task, err := uc.instantiator.FromTemplate(uc.templates[i], day, strings.TrimSpace(startTime))
	if err != nil {
		return domain.Task{}, err
	}
	if err := uc.tasks.Add(task); err != nil {
		return domain.Task{}, err
	}
	uc.persistLocked(ctx, "apply template")
	return task.Clone(), nil
}

func (uc *UseCase) ListPatterns() []domain.MultiDayPattern {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.MultiDayPattern, len(uc.patterns))
	for i := range uc.patterns {
		out[i] = uc.patterns[i].Clone()
	}
	return out
}

func (uc *UseCase) CreatePattern(ctx context.Context, p domain.MultiDayPattern) (domain.MultiDayPattern, error) {
	if p.ID == "" {
		p.ID = uc.newID()
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return domain.MultiDayPattern{}, err
	}
	now := uc.clock.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.patternIndex(p.ID) >= 0 {
		return domain.MultiDayPattern{}, domain.NewError(domain.ErrCodeConflict, "pattern already exists")
	}
	uc.patterns = append(uc.patterns, p.Clone())
	uc.persistLocked(ctx, "create pattern")
	return p, nil
}

func (uc *UseCase) DeletePattern(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.patternIndex(id)
	if i < 0 {
		return domain.ErrPatternNotFound
	}
	uc.patterns = slices.Delete(uc.patterns, i, i+1)
	uc.persistLocked(ctx, "delete pattern")
	return nil
}

// ApplyPattern lays the pattern out starting at dateKey. Entries that cannot
// be scheduled are reported in the result and do not stop the others.
func (uc *UseCase) ApplyPattern(ctx context.Context, id, dateKey string) (template.Result, error) {
	start, err := uc.parseDate(dateKey)
	if err != nil {
		return template.Result{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	i := uc.patternIndex(id)
	if i < 0 {
		return template.Result{}, domain.ErrPatternNotFound
	}
	res := uc.instantiator.ApplyPattern(uc.patterns[i], uc.templates, start)
	if len(res.Tasks) > 0 {
		uc.tasks.Apply(nil, res.Tasks)
		uc.persistLocked(ctx, "apply pattern")
	}
	return res, nil
}

func (uc *UseCase) templateIndex(id string) int {
	return slices.IndexFunc(uc.templates, func(t domain.Template) bool { return t.ID == id })
}

func (uc *UseCase) patternIndex(id string) int {
	return slices.IndexFunc(uc.patterns, func(p domain.MultiDayPattern) bool { return p.ID == id })
}
