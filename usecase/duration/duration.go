// Package duration derives effective durations and subtask gauges from a
// task's subtask tree.
package duration

import (
	"github.com/mo-tomi/nowtask8/domain"
)

// Rollup selects how far subtask durations are summed.
type Rollup int

const (
	// OneLevel sums only direct subtask durations.
	OneLevel Rollup = iota
	// Recursive sums leaf durations through the whole tree. A subtask with
	// its own duration counts that value and is not descended.
	Recursive
)

// Aggregator computes derived durations under one rollup policy.
type Aggregator struct {
	rollup Rollup
}

func New(rollup Rollup) Aggregator {
	return Aggregator{rollup: rollup}
}

func (a Aggregator) Rollup() Rollup {
	return a.rollup
}

// SubtaskSum totals the durations of subs; unset durations count as zero.
func (a Aggregator) SubtaskSum(subs []domain.Subtask) int {
	total := 0
	for i := range subs {
		own := subs[i].DurationMinutes()
		if a.rollup == Recursive && own <= 0 {
			total += a.SubtaskSum(subs[i].Subtasks)
			continue
		}
		total += own
	}
	return total
}

// Effective returns the task's own duration when positive, otherwise the
// subtask sum.
func (a Aggregator) Effective(t *domain.Task) int {
	return a.effective(t.Duration, t.Subtasks)
}

// EffectiveSubtask applies the same rule to a subtask and its children.
func (a Aggregator) EffectiveSubtask(s *domain.Subtask) int {
	return a.effective(s.Duration, s.Subtasks)
}

func (a Aggregator) effective(own *int, subs []domain.Subtask) int {
	if own != nil && *own > 0 {
		return *own
	}
	return a.SubtaskSum(subs)
}

// Gauge describes how much of a task's budget its subtasks take. Remaining
// goes negative when subtasks are over-allocated.
type Gauge struct {
	Visible     bool    `json:"visible"`
	Total       int     `json:"total"`
	Used        int     `json:"used"`
	Remaining   int     `json:"remaining"`
	UsedPercent float64 `json:"used_percent"`
}

// Gauge is hidden when there are no subtasks or their durations sum to zero.
func (a Aggregator) Gauge(t *domain.Task) Gauge {
	return a.gauge(t.Duration, t.Subtasks)
}

func (a Aggregator) SubtaskGauge(s *domain.Subtask) Gauge {
	return a.gauge(s.Duration, s.Subtasks)
}

func (a Aggregator) gauge(own *int, subs []domain.Subtask) Gauge {
	if len(subs) == 0 {
		return Gauge{}
	}
	used := a.SubtaskSum(subs)
	if used == 0 {
		return Gauge{}
	}
	total := used
	if own != nil && *own > 0 {
		total = *own
	}
	return Gauge{
		Visible:     true,
		Total:       total,
		Used:        used,
		Remaining:   total - used,
		UsedPercent: min(100, float64(used)/float64(total)*100),
	}
}

// Depth returns the deepest subtask level below t.
func Depth(t *domain.Task) int {
	return t.Depth()
}
