// Package timeutil holds the date and time-of-day helpers shared by every
// scheduling component. All "same day" decisions go through a Zone so the
// whole process applies a single timezone policy.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the canonical YYYY-MM-DD bucketing layout.
const DateKeyLayout = "2006-01-02"

// MinutesPerDay is the length of a nominal day used by gauges and free-time math.
const MinutesPerDay = 24 * 60

var (
	ErrInvalidClock = errors.New("time of day must be HH:MM")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
)

// Zone pins day boundaries to one location. The zero value uses time.Local.
type Zone struct {
	loc *time.Location
}

// NewZone returns a Zone for loc; nil means time.Local.
func NewZone(loc *time.Location) Zone {
	return Zone{loc: loc}
}

// LoadZone resolves an IANA name ("Local" and "" map to time.Local).
func LoadZone(name string) (Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return Zone{loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return Zone{loc: loc}, nil
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.Local
	}
	return z.loc
}

func (z Zone) In(t time.Time) time.Time {
	return t.In(z.Location())
}

// DateKey formats t as YYYY-MM-DD in the zone.
func (z Zone) DateKey(t time.Time) string {
	return z.In(t).Format(DateKeyLayout)
}

// ParseDateKey returns midnight of key in the zone.
func (z Zone) ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, strings.TrimSpace(key), z.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

func (z Zone) SameDay(a, b time.Time) bool {
	return z.DateKey(a) == z.DateKey(b)
}

func (z Zone) StartOfDay(t time.Time) time.Time {
	t = z.In(t)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, z.Location())
}

// NextDay returns midnight of the calendar day after t.
func (z Zone) NextDay(t time.Time) time.Time {
	return z.AddDays(t, 1)
}

// AddDays moves t's calendar day by n and returns that day's midnight.
func (z Zone) AddDays(t time.Time, n int) time.Time {
	t = z.In(t)
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, z.Location())
}

// At combines the calendar day of day with the clock time c.
func (z Zone) At(day time.Time, c Clock24) time.Time {
	day = z.In(day)
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, z.Location())
}

// WeekWindow returns the Sunday-to-Saturday window containing ref as [start, end).
func (z Zone) WeekWindow(ref time.Time) (time.Time, time.Time) {
	start := z.AddDays(ref, -int(z.In(ref).Weekday()))
	return start, z.AddDays(start, 7)
}

// MonthWindow returns the calendar month containing ref as [start, end).
func (z Zone) MonthWindow(ref time.Time) (time.Time, time.Time) {
	ref = z.In(ref)
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, z.Location())
	return start, start.AddDate(0, 1, 0)
}

func (z Zone) DaysInMonth(ref time.Time) int {
	ref = z.In(ref)
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, z.Location()).Day()
}

// MinutesSinceMidnight counts wall-clock minutes elapsed on t's day.
func (z Zone) MinutesSinceMidnight(t time.Time) int {
	t = z.In(t)
	return t.Hour()*60 + t.Minute()
}

// Clock24 is a wall-clock time of day.
type Clock24 struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (a single-digit hour is accepted).
func ParseClock(s string) (Clock24, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return Clock24{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock24{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Clock24{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock24{Hour: h, Minute: m}, nil
}

func (c Clock24) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock24) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// DiffMinutes returns a-b in whole minutes, truncated toward zero.
func DiffMinutes(a, b time.Time) int {
	return int(a.Sub(b) / time.Minute)
}

// RoundedDiffMinutes returns a-b rounded to the nearest minute.
func RoundedDiffMinutes(a, b time.Time) int {
	return int(a.Sub(b).Round(time.Minute) / time.Minute)
}
