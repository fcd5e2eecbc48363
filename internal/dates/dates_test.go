package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestComputeStreak_EndsToday(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, ComputeStreak(nil))
	assert.Equal(t, 2, ComputeStreak([]time.Time{now, now.AddDate(0, 0, -1)}))
	assert.Equal(t, 0, ComputeStreak([]time.Time{now.AddDate(0, 0, -3)}))
}

func TestStreak_Empty(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, today))
	assert.Equal(t, 0, Streak([]time.Time{}, today))
}

func TestStreak_BrokenWhenLatestBeforeYesterday(t *testing.T) {
	assert.Equal(t, 0, Streak([]time.Time{daysAgo(2)}, today))
	assert.Equal(t, 0, Streak([]time.Time{daysAgo(3), daysAgo(4), daysAgo(5)}, today))
}

func TestStreak_Consecutive(t *testing.T) {
	assert.Equal(t, 3, Streak([]time.Time{today, daysAgo(1), daysAgo(2)}, today))
	// input order does not matter
	assert.Equal(t, 3, Streak([]time.Time{daysAgo(2), today, daysAgo(1)}, today))
}

func TestStreak_GapStopsScan(t *testing.T) {
	assert.Equal(t, 1, Streak([]time.Time{today, daysAgo(2)}, today))
	assert.Equal(t, 2, Streak([]time.Time{today, daysAgo(1), daysAgo(3), daysAgo(4)}, today))
}

func TestStreak_SingleLog(t *testing.T) {
	assert.Equal(t, 1, Streak([]time.Time{today}, today))
	assert.Equal(t, 1, Streak([]time.Time{daysAgo(1)}, today))
}

func TestStreak_DuplicateDaysCountOnce(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, Streak([]time.Time{morning, evening}, today))
	assert.Equal(t, 2, Streak([]time.Time{morning, evening, daysAgo(1), daysAgo(1)}, today))
}

func TestStreak_IgnoresFutureDays(t *testing.T) {
	assert.Equal(t, 2, Streak([]time.Time{today.AddDate(0, 0, 2), today, daysAgo(1)}, today))
	assert.Equal(t, 0, Streak([]time.Time{today.AddDate(0, 0, 1)}, today))
}

func TestStreak_UsesTodayLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	localToday := time.Date(2025, 3, 10, 1, 0, 0, 0, tokyo)
	// 2025-03-09 20:00 UTC is already 2025-03-10 in Tokyo
	logged := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 3, 9, 12, 0, 0, 0, tokyo)
	assert.Equal(t, 2, Streak([]time.Time{logged, yesterday}, localToday))
}

func TestDaysBetween(t *testing.T) {
	a := Day(daysAgo(5), time.UTC)
	b := Day(today, time.UTC)
	assert.Equal(t, 5, DaysBetween(a, b))
	assert.Equal(t, -5, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(b, b))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-04", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-03-04T10:15:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("", time.UTC)
	assert.Error(t, err)
	_, err = ParseDate("yesterday", time.UTC)
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 4, 2025", FormatDate(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-04", ISODate(time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC)))
}
