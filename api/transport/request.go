package transport

import (
	"strings"
	"time"

	"github.com/mo-tomi/nowtask8/domain"
)

// TaskRequest carries task fields; times are RFC 3339.
type TaskRequest struct {
	Name      string           `json:"name"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Duration  *int             `json:"duration"`
	Priority  string           `json:"priority"`
	Tags      []string         `json:"tags"`
	Completed bool             `json:"completed"`
	Subtasks  []SubtaskRequest `json:"subtasks"`
}

func (r TaskRequest) ToTask() (domain.Task, error) {
	start, err := parseTime(r.StartTime)
	if err != nil {
		return domain.Task{}, err
	}
	end, err := parseTime(r.EndTime)
	if err != nil {
		return domain.Task{}, err
	}
	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		return domain.Task{}, err
	}
	subs := make([]domain.Subtask, 0, len(r.Subtasks))
	for _, s := range r.Subtasks {
		subs = append(subs, s.ToSubtask())
	}
	return domain.Task{
		Name:      r.Name,
		StartTime: start,
		EndTime:   end,
		Duration:  r.Duration,
		Priority:  priority,
		Tags:      r.Tags,
		Completed: r.Completed,
		Subtasks:  subs,
	}, nil
}

type SubtaskRequest struct {
	ParentID string           `json:"parent_id"`
	Name     string           `json:"name"`
	Duration *int             `json:"duration"`
	Subtasks []SubtaskRequest `json:"subtasks"`
}

func (r SubtaskRequest) ToSubtask() domain.Subtask {
	sub := domain.Subtask{Name: r.Name, Duration: r.Duration, Subtasks: make([]domain.Subtask, 0, len(r.Subtasks))}
	for _, child := range r.Subtasks {
		sub.Subtasks = append(sub.Subtasks, child.ToSubtask())
	}
	return sub
}

type RoutineRequest struct {
	Name         string   `json:"name"`
	StartTime    string   `json:"start_time"`
	Duration     *int     `json:"duration"`
	Pattern      string   `json:"pattern"`
	RepeatDays   []int    `json:"repeat_days"`
	ExcludeDates []string `json:"exclude_dates"`
}

func (r RoutineRequest) ToRoutine() domain.Routine {
	return domain.Routine{
		Name:         r.Name,
		StartTime:    r.StartTime,
		Duration:     r.Duration,
		Pattern:      domain.Pattern(strings.ToLower(r.Pattern)),
		RepeatDays:   r.RepeatDays,
		ExcludeDates: r.ExcludeDates,
	}
}

type PresetRequest struct {
	Name       string `json:"name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakTime  int    `json:"break_time"`
	CreateTask bool   `json:"create_task"`
	Order      int    `json:"order"`
}

func (r PresetRequest) ToPreset() domain.ShiftPreset {
	return domain.ShiftPreset{
		Name:       r.Name,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		BreakTime:  r.BreakTime,
		CreateTask: r.CreateTask,
		Order:      r.Order,
	}
}

// ShiftsRequest replaces a date's assignments; PresetID appends one.
type ShiftsRequest struct {
	PresetIDs []string `json:"preset_ids"`
	PresetID  string   `json:"preset_id"`
}

type TemplateRequest struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Duration        *int     `json:"duration"`
	StartTime       string   `json:"start_time"`
	Tags            []string `json:"tags"`
	AddFromCalendar bool     `json:"add_from_calendar"`
}

func (r TemplateRequest) ToTemplate() domain.Template {
	return domain.Template{
		Name:            r.Name,
		Category:        r.Category,
		Duration:        r.Duration,
		StartTime:       r.StartTime,
		Tags:            r.Tags,
		AddFromCalendar: r.AddFromCalendar,
	}
}

type PatternRequest struct {
	Name string              `json:"name"`
	Days []domain.DayPattern `json:"days"`
}

func (r PatternRequest) ToPattern() domain.MultiDayPattern {
	return domain.MultiDayPattern{Name: r.Name, Days: r.Days}
}

// ApplyRequest targets a date; StartTime (HH:MM) applies to templates only.
type ApplyRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

func parseTime(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, domain.Invalid(domain.ErrInvalidPayload, "time must be RFC 3339: "+v)
	}
	return &t, nil
}
