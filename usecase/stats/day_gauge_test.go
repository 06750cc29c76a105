package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mo-tomi/nowtask8/domain"
)

func states(g DayGauge) map[int]SlotState {
	out := map[int]SlotState{}
	for _, s := range g.Slots {
		out[s.Hour] = s.State
	}
	return out
}

func TestDayGaugeToday(t *testing.T) {
	day := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 13, 10, 30, 0, 0, time.UTC)
	meeting := task(at(time.March, 13, 14), 120, false)
	end := time.Date(2024, time.March, 13, 16, 0, 0, 0, time.UTC)
	meeting.EndTime = &end
	noEnd := task(at(time.March, 13, 20), 30, false)
	done := task(at(time.March, 13, 18), 60, true)
	untimed := domain.Task{Name: "u", Duration: domain.Minutes(90)}

	g := agg.DayGauge([]domain.Task{meeting, noEnd, done, untimed}, day, now)
	s := states(g)

	assert.Equal(t, "2024-03-13", g.Date)
	assert.Len(t, g.Slots, 24)
	assert.Equal(t, SlotElapsed, s[9])
	assert.Equal(t, SlotCurrent, s[10])
	assert.Equal(t, SlotFree, s[11])
	assert.Equal(t, SlotScheduled, s[14])
	assert.Equal(t, SlotScheduled, s[15])
	assert.Equal(t, SlotFree, s[16])
	assert.Equal(t, SlotFree, s[18])
	assert.Equal(t, SlotScheduled, s[20])

	assert.Equal(t, 630, g.ElapsedMinutes)
	assert.Equal(t, 240, g.ScheduledMinutes)
	assert.Equal(t, 1440-630-240, g.RemainingFreeMinutes)
	assert.Equal(t, 9.5, g.RemainingFreeHours)
}

func TestDayGaugeOvernightTaskFillsRestOfDay(t *testing.T) {
	day := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	shift := task(at(time.March, 13, 16), 960, false)
	end := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	shift.EndTime = &end

	g := agg.DayGauge([]domain.Task{shift}, day, day.Add(-time.Hour))
	s := states(g)
	assert.Equal(t, SlotFree, s[15])
	assert.Equal(t, SlotScheduled, s[16])
	assert.Equal(t, SlotScheduled, s[23])
	assert.Equal(t, 0, g.ElapsedMinutes)
	assert.Equal(t, 480, g.RemainingFreeMinutes)
}

func TestDayGaugePastDayNegativeFreeClampedForDisplay(t *testing.T) {
	day := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	g := agg.DayGauge([]domain.Task{task(at(time.March, 13, 9), 60, false)}, day, day.AddDate(0, 0, 2))
	for _, slot := range g.Slots {
		assert.Equal(t, SlotElapsed, slot.State)
	}
	assert.Equal(t, -60, g.RemainingFreeMinutes)
	assert.Equal(t, 0.0, g.RemainingFreeHours)
}
