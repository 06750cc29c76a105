package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Task{Name: " "}).Validate(), ErrEmptyName)
	assert.ErrorIs(t, (&Task{Name: "x", Duration: Minutes(-5)}).Validate(), ErrInvalidDuration)
	assert.ErrorIs(t, (&Task{Name: "x", Priority: "urgent"}).Validate(), ErrInvalidPriority)
	assert.NoError(t, (&Task{Name: "x", Priority: PriorityHigh}).Validate())
}

func TestNormalizeDropsEndWithoutStart(t *testing.T) {
	end := time.Now()
	task := Task{Name: "  x ", EndTime: &end, CompletedAt: &end}
	task.Normalize()
	assert.Equal(t, "x", task.Name)
	assert.Nil(t, task.EndTime)
	assert.Nil(t, task.CompletedAt)
	assert.NotNil(t, task.Tags)
	assert.NotNil(t, task.Subtasks)
}

func TestSetCompletedStampsOnTransition(t *testing.T) {
	first := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)
	task := Task{Name: "x"}

	task.SetCompleted(true, first)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, first, *task.CompletedAt)
	assert.Equal(t, first, task.UpdatedAt)

	task.SetCompleted(true, later)
	assert.Equal(t, first, *task.CompletedAt)

	task.SetCompleted(false, later)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, later, task.UpdatedAt)
}

func TestEffectiveDay(t *testing.T) {
	z := timeutil.NewZone(time.UTC)
	start := time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC)
	created := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-05", (&Task{StartTime: &start, CreatedAt: created}).EffectiveDay(z))
	assert.Equal(t, "2024-03-01", (&Task{CreatedAt: created}).EffectiveDay(z))
}

func TestIntervalRequiresOrderedBounds(t *testing.T) {
	start := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	_, _, ok := (&Task{StartTime: &start}).Interval()
	assert.False(t, ok)
	_, _, ok = (&Task{StartTime: &end, EndTime: &start}).Interval()
	assert.False(t, ok)
	s, e, ok := (&Task{StartTime: &start, EndTime: &end}).Interval()
	require.True(t, ok)
	assert.Equal(t, start, s)
	assert.Equal(t, end, e)
}

func TestCloneIsDeep(t *testing.T) {
	start := time.Now()
	orig := Task{Name: "x", StartTime: &start, Duration: Minutes(10), Tags: []string{"a"}, Subtasks: []Subtask{{ID: "s", Name: "s", Duration: Minutes(3)}}}
	c := orig.Clone()
	*c.Duration = 99
	c.Tags[0] = "b"
	*c.Subtasks[0].Duration = 7
	c.StartTime = nil

	assert.Equal(t, 10, *orig.Duration)
	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, 3, *orig.Subtasks[0].Duration)
	assert.NotNil(t, orig.StartTime)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNone, p)

	p, err = ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("critical")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestRoutineNormalize(t *testing.T) {
	r := Routine{Name: " walk ", RepeatDays: nil}
	r.Normalize()
	assert.Equal(t, PatternDaily, r.Pattern)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, r.RepeatDays)
	assert.NoError(t, r.Validate())

	r = Routine{Name: "x", Pattern: PatternWeekly, RepeatDays: []int{5, 1, 5}}
	r.Normalize()
	assert.Equal(t, []int{1, 5}, r.RepeatDays)

	bad := Routine{Name: "x", Pattern: "hourly"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPattern)
	bad = Routine{Name: "x", Pattern: PatternDaily, StartTime: "7am"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidClock)
}
