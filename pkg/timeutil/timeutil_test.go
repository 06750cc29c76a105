package timeutil

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyUsesZone(t *testing.T) {
	tokyo, err := LoadZone("Asia/Tokyo")
	require.NoError(t, err)

	instant := time.Date(2024, time.March, 9, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", tokyo.DateKey(instant))
	assert.Equal(t, "2024-03-09", NewZone(time.UTC).DateKey(instant))
}

func TestLoadZone(t *testing.T) {
	z, err := LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, z.Location())

	z, err = LoadZone("local")
	require.NoError(t, err)
	assert.Equal(t, time.Local, z.Location())

	_, err = LoadZone("Mars/Olympus")
	assert.Error(t, err)

	assert.Equal(t, time.Local, Zone{}.Location())
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, Clock24{Hour: 9, Minute: 5}, c)
	assert.Equal(t, "09:05", c.String())
	assert.Equal(t, 545, c.Minutes())

	for _, bad := range []string{"", "24:00", "12:60", "1200", "12:5", "ab:cd", "123:00"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestWindows(t *testing.T) {
	z := NewZone(time.UTC)
	wed := time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC)

	start, end := z.WeekWindow(wed)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC), end)

	start, end = z.MonthWindow(wed)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), end)

	assert.Equal(t, 29, z.DaysInMonth(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, z.DaysInMonth(wed))
	assert.Equal(t, 900, z.MinutesSinceMidnight(wed))
}

func TestDayArithmetic(t *testing.T) {
	z := NewZone(time.UTC)
	day := time.Date(2024, time.December, 31, 18, 45, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), z.NextDay(day))
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), z.StartOfDay(day))
	assert.Equal(t, time.Date(2024, time.December, 31, 7, 30, 0, 0, time.UTC), z.At(day, Clock24{Hour: 7, Minute: 30}))

	parsed, err := z.ParseDateKey("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), parsed)
	_, err = z.ParseDateKey("2024-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestMinuteArithmetic(t *testing.T) {
	a := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, a.Add(90*time.Minute), AddMinutes(a, 90))
	assert.Equal(t, 90, DiffMinutes(a.Add(90*time.Minute+40*time.Second), a))
	assert.Equal(t, 91, RoundedDiffMinutes(a.Add(90*time.Minute+40*time.Second), a))
	assert.Equal(t, -30, DiffMinutes(a, a.Add(30*time.Minute)))
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	c := NewFakeClock(start)
	assert.Equal(t, start, c.Now())
	c.Advance(2 * time.Minute)
	assert.Equal(t, start.Add(2*time.Minute), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}
