// Package dates holds calendar-day helpers and the practice streak calculation.
package dates

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const ISOLayout = "2006-01-02"

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Both values are expected to be Day-normalized in the same location.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func ISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatDate renders a date for display, e.g. "Mar 4, 2025".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// ParseDate accepts either a calendar day ("2025-03-04"), interpreted as
// midnight in loc, or a full RFC3339 timestamp.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.ParseInLocation(ISOLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ComputeStreak returns the current streak ending today in the local timezone.
func ComputeStreak(logDates []time.Time) int {
	return Streak(logDates, time.Now())
}

// Streak counts consecutive calendar days with at least one log, ending at the
// most recent logged day. The streak is 0 when that day is before yesterday.
// Calendar days are taken in today's location; days after today are ignored.
func Streak(logDates []time.Time, today time.Time) int {
	if len(logDates) == 0 {
		return 0
	}
	loc := today.Location()
	todayDay := Day(today, loc)

	seen := make(map[time.Time]struct{}, len(logDates))
	days := make([]time.Time, 0, len(logDates))
	for _, d := range logDates {
		day := Day(d, loc)
		if day.After(todayDay) {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	if DaysBetween(days[0], todayDay) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if DaysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}
