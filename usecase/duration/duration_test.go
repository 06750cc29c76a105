package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-tomi/nowtask8/domain"
)

func sub(name string, minutes *int, children ...domain.Subtask) domain.Subtask {
	return domain.Subtask{ID: name, Name: name, Duration: minutes, Subtasks: children}
}

func TestEffectivePrefersOwnDuration(t *testing.T) {
	task := domain.Task{Duration: domain.Minutes(45), Subtasks: []domain.Subtask{sub("a", domain.Minutes(90))}}
	assert.Equal(t, 45, New(OneLevel).Effective(&task))
}

func TestEffectiveFallsBackToDirectSubtasks(t *testing.T) {
	task := domain.Task{
		Duration: domain.Minutes(0),
		Subtasks: []domain.Subtask{
			sub("a", domain.Minutes(20)),
			sub("b", nil, sub("deep", domain.Minutes(100))),
			sub("c", domain.Minutes(10)),
		},
	}
	assert.Equal(t, 30, New(OneLevel).Effective(&task))
	assert.Equal(t, 130, New(Recursive).Effective(&task))
}

func TestRecursiveStopsAtSubtaskWithOwnDuration(t *testing.T) {
	task := domain.Task{Subtasks: []domain.Subtask{
		sub("a", domain.Minutes(15), sub("ignored", domain.Minutes(500))),
	}}
	assert.Equal(t, 15, New(Recursive).Effective(&task))
}

func TestGaugeOverAllocation(t *testing.T) {
	task := domain.Task{
		Duration: domain.Minutes(60),
		Subtasks: []domain.Subtask{sub("a", domain.Minutes(50)), sub("b", domain.Minutes(40))},
	}
	g := New(OneLevel).Gauge(&task)
	assert.True(t, g.Visible)
	assert.Equal(t, 60, g.Total)
	assert.Equal(t, 90, g.Used)
	assert.Equal(t, -30, g.Remaining)
	assert.Equal(t, 100.0, g.UsedPercent)
}

func TestGaugePartial(t *testing.T) {
	task := domain.Task{Duration: domain.Minutes(120), Subtasks: []domain.Subtask{sub("a", domain.Minutes(30))}}
	g := New(OneLevel).Gauge(&task)
	assert.Equal(t, 90, g.Remaining)
	assert.InDelta(t, 25.0, g.UsedPercent, 1e-9)
}

func TestGaugeWithoutOwnDurationIsFull(t *testing.T) {
	task := domain.Task{Subtasks: []domain.Subtask{sub("a", domain.Minutes(30))}}
	g := New(OneLevel).Gauge(&task)
	assert.Equal(t, 30, g.Total)
	assert.Equal(t, 0, g.Remaining)
	assert.Equal(t, 100.0, g.UsedPercent)
}

func TestGaugeHidden(t *testing.T) {
	a := New(OneLevel)
	assert.False(t, a.Gauge(&domain.Task{Duration: domain.Minutes(30)}).Visible)
	assert.False(t, a.Gauge(&domain.Task{Subtasks: []domain.Subtask{sub("a", nil)}}).Visible)
}

func TestSubtaskGauge(t *testing.T) {
	parent := sub("p", domain.Minutes(20), sub("x", domain.Minutes(5)))
	g := New(OneLevel).SubtaskGauge(&parent)
	require.True(t, g.Visible)
	assert.Equal(t, 15, g.Remaining)
	assert.Equal(t, 20, New(OneLevel).EffectiveSubtask(&parent))
}

func TestDepth(t *testing.T) {
	task := domain.Task{Subtasks: []domain.Subtask{
		sub("a", nil, sub("b", nil, sub("c", nil))),
		sub("d", nil),
	}}
	assert.Equal(t, 3, Depth(&task))
	assert.Equal(t, 0, Depth(&domain.Task{}))
}
