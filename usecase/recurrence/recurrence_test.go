package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

var utc = timeutil.NewZone(time.UTC)

func newGenerator(now time.Time) *Generator {
	n := 0
	return New(utc, timeutil.NewFakeClock(now), nil, WithIDs(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func names(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}

func TestRoutineTaskShape(t *testing.T) {
	day := date(2024, time.March, 13)
	g := newGenerator(day.Add(6 * time.Hour))

	plan := g.GenerateForDay(day, []domain.Routine{
		{Name: "breakfast", StartTime: "07:00", Duration: domain.Minutes(30), Pattern: domain.PatternDaily},
	}, nil, nil)

	require.Len(t, plan.Add, 1)
	task := plan.Add[0]
	assert.Equal(t, "2024-03-13", plan.Date)
	assert.Equal(t, time.Date(2024, time.March, 13, 7, 0, 0, 0, time.UTC), *task.StartTime)
	assert.Equal(t, time.Date(2024, time.March, 13, 7, 30, 0, 0, time.UTC), *task.EndTime)
	assert.Equal(t, 30, task.DurationMinutes())
	assert.True(t, task.HasTag(domain.RoutineTag))
	assert.Empty(t, plan.Remove)
}

func TestRoutineWithoutStartLandsOnDayThroughCreatedAt(t *testing.T) {
	now := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	g := newGenerator(now)
	routines := []domain.Routine{{Name: "stretch", Duration: domain.Minutes(10), Pattern: domain.PatternDaily}}

	today := g.GenerateForDay(now, routines, nil, nil)
	require.Len(t, today.Add, 1)
	assert.Nil(t, today.Add[0].StartTime)
	assert.Nil(t, today.Add[0].EndTime)
	assert.Equal(t, now, today.Add[0].CreatedAt)

	future := g.GenerateForDay(date(2024, time.March, 20), routines, nil, nil)
	require.Len(t, future.Add, 1)
	assert.Equal(t, "2024-03-20", future.Add[0].EffectiveDay(utc))
}

func TestRoutineStartWithoutDurationHasNoEnd(t *testing.T) {
	day := date(2024, time.March, 13)
	plan := newGenerator(day).GenerateForDay(day, []domain.Routine{{Name: "call", StartTime: "18:00"}}, nil, nil)
	require.Len(t, plan.Add, 1)
	assert.NotNil(t, plan.Add[0].StartTime)
	assert.Nil(t, plan.Add[0].EndTime)
}

func TestGenerationIsIdempotent(t *testing.T) {
	day := date(2024, time.March, 13)
	g := newGenerator(day.Add(time.Hour))
	routines := []domain.Routine{
		{Name: "sleep", StartTime: "23:00", Duration: domain.Minutes(480), Pattern: domain.PatternDaily},
		{Name: "journal", Pattern: domain.PatternDaily},
	}
	shifts := domain.ShiftAssignments{"2024-03-13": {
		{Name: "work", StartTime: "09:00", EndTime: "18:00", BreakTime: 60, CreateTask: true},
	}}

	first := g.GenerateForDay(day, routines, shifts, nil)
	require.Len(t, first.Add, 3)

	second := g.GenerateForDay(day, routines, shifts, first.Add)
	assert.Empty(t, second.Add)
	assert.Empty(t, second.Remove)
	assert.True(t, second.Empty())
}

func TestDuplicateRoutineNamesGenerateOnce(t *testing.T) {
	day := date(2024, time.March, 13)
	plan := newGenerator(day).GenerateForDay(day, []domain.Routine{
		{Name: "walk", Pattern: domain.PatternDaily},
		{Name: "walk", Pattern: domain.PatternDaily, StartTime: "08:00"},
	}, nil, nil)
	assert.Equal(t, []string{"walk"}, names(plan.Add))
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, ReasonDuplicate, plan.Skipped[0].Reason)
}

func TestWeeklyRespectsRepeatDays(t *testing.T) {
	routine := domain.Routine{Name: "gym", Pattern: domain.PatternWeekly, RepeatDays: []int{1, 3, 5}}
	sunday := date(2024, time.March, 10)
	wednesday := date(2024, time.March, 13)
	g := newGenerator(sunday)

	plan := g.GenerateForDay(sunday, []domain.Routine{routine}, nil, nil)
	assert.Empty(t, plan.Add)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, ReasonNotScheduled, plan.Skipped[0].Reason)

	plan = g.GenerateForDay(wednesday, []domain.Routine{routine}, nil, nil)
	assert.Equal(t, []string{"gym"}, names(plan.Add))
}

func TestExcludeDatesSuppressGeneration(t *testing.T) {
	day := date(2024, time.March, 13)
	g := newGenerator(day)
	for _, pattern := range []domain.Pattern{domain.PatternDaily, domain.PatternWeekly, domain.PatternMonthly} {
		r := domain.Routine{Name: "x", Pattern: pattern, RepeatDays: []int{0, 1, 2, 3, 4, 5, 6}, ExcludeDates: []string{"2024-03-13"}}
		plan := g.GenerateForDay(day, []domain.Routine{r}, nil, nil)
		assert.Empty(t, plan.Add, pattern)
		assert.Equal(t, ReasonExcluded, plan.Skipped[0].Reason)
	}
}

func TestMonthlyIsAlwaysEligible(t *testing.T) {
	r := domain.Routine{Name: "rent", Pattern: domain.PatternMonthly}
	for d := 1; d <= 31; d++ {
		day := date(2024, time.March, d)
		ok, _ := Eligible(&r, day, utc.DateKey(day))
		assert.True(t, ok)
	}
}

func TestMalformedStartSkipsOnlyThatRoutine(t *testing.T) {
	day := date(2024, time.March, 13)
	plan := newGenerator(day).GenerateForDay(day, []domain.Routine{
		{Name: "broken", StartTime: "25:99", Pattern: domain.PatternDaily},
		{Name: "fine", StartTime: "08:00", Pattern: domain.PatternDaily},
	}, nil, nil)
	assert.Equal(t, []string{"fine"}, names(plan.Add))
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, Skip{Kind: KindRoutine, Name: "broken", Reason: ReasonInvalidTime}, plan.Skipped[0])
}

func TestOvernightShiftDuration(t *testing.T) {
	day := date(2024, time.March, 13)
	task, err := newGenerator(day).ShiftTask(domain.AppliedShift{
		Name: "night shift", StartTime: "16:00", EndTime: "09:00", BreakTime: 60, CreateTask: true,
	}, day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 13, 16, 0, 0, 0, time.UTC), *task.StartTime)
	assert.Equal(t, time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC), *task.EndTime)
	assert.Equal(t, 960, task.DurationMinutes())
	assert.True(t, task.HasTag(domain.ShiftTag))
}

func TestShiftEqualBoundsRollOver(t *testing.T) {
	day := date(2024, time.March, 13)
	task, err := newGenerator(day).ShiftTask(domain.AppliedShift{Name: "full", StartTime: "08:00", EndTime: "08:00"}, day)
	require.NoError(t, err)
	assert.Equal(t, 24*60, task.DurationMinutes())
}

func TestShiftDurationFlooredAtZero(t *testing.T) {
	day := date(2024, time.March, 13)
	task, err := newGenerator(day).ShiftTask(domain.AppliedShift{Name: "short", StartTime: "09:00", EndTime: "09:30", BreakTime: 45}, day)
	require.NoError(t, err)
	assert.Equal(t, 0, task.DurationMinutes())
}

func TestCalendarOnlyPresetCreatesNoTask(t *testing.T) {
	day := date(2024, time.March, 13)
	plan := newGenerator(day).GenerateForDay(day, nil, domain.ShiftAssignments{
		"2024-03-13": {{Name: "day off"}},
	}, nil)
	assert.Empty(t, plan.Add)
	assert.Equal(t, ReasonCalendarOnly, plan.Skipped[0].Reason)
}

func TestUntimedShiftTask(t *testing.T) {
	day := date(2024, time.March, 13)
	plan := newGenerator(day).GenerateForDay(day, nil, domain.ShiftAssignments{
		"2024-03-13": {{Name: "plans", CreateTask: true}},
	}, nil)
	require.Len(t, plan.Add, 1)
	assert.Nil(t, plan.Add[0].StartTime)
	assert.Nil(t, plan.Add[0].Duration)
	assert.Equal(t, "2024-03-13", plan.Add[0].EffectiveDay(utc))
}

func TestShiftReplaceRemovesPreviousShiftTasksOnDate(t *testing.T) {
	day := date(2024, time.March, 13)
	g := newGenerator(day)
	start := time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)
	existing := []domain.Task{
		{ID: "old-shift", Name: "work", Tags: []string{domain.ShiftTag}, StartTime: &start},
		{ID: "other-day", Name: "work", Tags: []string{domain.ShiftTag}, CreatedAt: date(2024, time.March, 12)},
		{ID: "manual", Name: "dentist", StartTime: &start},
	}

	plan := g.GenerateForDay(day, nil, domain.ShiftAssignments{
		"2024-03-13": {{Name: "training", StartTime: "09:00", EndTime: "17:00", BreakTime: 60, CreateTask: true}},
	}, existing)

	assert.Equal(t, []string{"old-shift"}, plan.Remove)
	assert.Equal(t, []string{"training"}, names(plan.Add))
	assert.Equal(t, 420, plan.Add[0].DurationMinutes())
}

func TestReplaceShiftsWithNothingClears(t *testing.T) {
	day := date(2024, time.March, 13)
	existing := []domain.Task{{ID: "s", Name: "work", Tags: []string{domain.ShiftTag}, CreatedAt: day}}
	plan := newGenerator(day).ReplaceShifts(day, nil, existing)
	assert.Equal(t, []string{"s"}, plan.Remove)
	assert.Empty(t, plan.Add)
}

func TestNoAssignmentsLeavesShiftTasks(t *testing.T) {
	day := date(2024, time.March, 13)
	existing := []domain.Task{{ID: "s", Name: "work", Tags: []string{domain.ShiftTag}, CreatedAt: day}}
	plan := newGenerator(day).GenerateForDay(day, nil, domain.ShiftAssignments{}, existing)
	assert.Empty(t, plan.Remove)
}

func TestMalformedShiftSkipsOnlyThatShift(t *testing.T) {
	day := date(2024, time.March, 13)
	plan := newGenerator(day).GenerateForDay(day, nil, domain.ShiftAssignments{
		"2024-03-13": {
			{Name: "bad", StartTime: "9am", EndTime: "17:00", CreateTask: true},
			{Name: "good", StartTime: "09:00", EndTime: "17:00", CreateTask: true},
		},
	}, nil)
	assert.Equal(t, []string{"good"}, names(plan.Add))
	assert.Equal(t, Skip{Kind: KindShift, Name: "bad", Reason: ReasonInvalidTime}, plan.Skipped[0])
}
