package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window fixes the calendar used to cut the daily and weekly windows: the
// reference timezone and the weekday a week begins on.
type Window struct {
	Location  *time.Location
	WeekStart time.Weekday
}

// DefaultWindow counts days in UTC with weeks starting on Monday.
func DefaultWindow() Window {
	return Window{Location: time.UTC, WeekStart: time.Monday}
}

func (w Window) loc() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// DayStart returns the first instant of now's calendar day in the
// reference timezone.
func (w Window) DayStart(now time.Time) time.Time {
	return startOfDay(now.In(w.loc()), 0)
}

// WeekStartOf returns the first instant of the most recent WeekStart
// weekday on or before now's calendar day. Days are stepped on the
// calendar rather than in 24h units so DST transitions do not shift the
// boundary.
func (w Window) WeekStartOf(now time.Time) time.Time {
	t := now.In(w.loc())
	back := (int(t.Weekday()) - int(w.WeekStart) + 7) % 7
	return startOfDay(t, -back)
}

// startOfDay returns the first instant of the day offset days from t's
// calendar day, in t's location. Where a DST change skips midnight,
// time.Date normalises 00:00 into the previous day; the day then begins at
// the transition, which is the end of the zone period time.Date landed in.
func startOfDay(t time.Time, offset int) time.Time {
	y, m, d := t.Year(), t.Month(), t.Day()+offset
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if start.Day() != time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Day() {
		_, start = start.ZoneBounds()
	}
	return start
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts English day names, their three-letter forms, or a
// number where 0 is Sunday and 6 is Saturday.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdays[key]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday: %q", s)
}
