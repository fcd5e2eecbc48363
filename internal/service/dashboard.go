package service

import (
	"context"
	"net/http"
	"time"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/dates"
	"github.com/yourname/devtrack/internal/storage"
)

const (
	weeklyWindowDays = 7
	chartDays        = 14
	weakTopicBelow   = 5
	lowConfidence    = 3
	dashboardListCap = 5
)

type DashboardSource interface {
	storage.TopicRepository
	storage.LogRepository
	storage.SkillRepository
}

type DashboardStats struct {
	Streak              int                     `json:"streak"`
	WeeklyProblems      int                     `json:"weekly_problems"`
	WeeklyRevisions     int                     `json:"weekly_revisions"`
	AvgStars            float64                 `json:"avg_stars"`
	TotalLogs           int                     `json:"total_logs"`
	WeakTopics          []internal.TopicTotals  `json:"weak_topics"`
	LowConfidenceSkills []internal.BackendSkill `json:"low_confidence_skills"`
}

type DailyProgress struct {
	Date      string `json:"date"`
	Problems  int    `json:"problems"`
	Revisions int    `json:"revisions"`
}

type SkillConfidence struct {
	Skill      string `json:"skill"`
	Confidence int    `json:"confidence"`
}

type ChartData struct {
	DailyProgress   []DailyProgress   `json:"daily_progress"`
	SkillConfidence []SkillConfidence `json:"skill_confidence"`
}

// tomorrow is midnight, in now's location, at the end of today.
func tomorrow(now time.Time) time.Time {
	return dates.Day(now, now.Location()).AddDate(0, 0, 1)
}

// windowStart is midnight, in now's location, of the first day of an n-day window ending today.
func windowStart(now time.Time, days int) time.Time {
	return dates.Day(now, now.Location()).AddDate(0, 0, -(days - 1))
}

// GetDashboardStats aggregates the caller's streak, the last 7 calendar days
// (today included), weak topics and low-confidence skills.
func GetDashboardStats(ctx context.Context, src DashboardSource, user *internal.User, now time.Time) (*DashboardStats, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	fail := func(err error) error {
		return internal.WrapAppError(http.StatusInternalServerError, "Failed to load dashboard", err)
	}

	all, err := src.ListLogs(ctx, storage.LogQuery{UserID: user.ID})
	if err != nil {
		return nil, fail(err)
	}
	logDates := make([]time.Time, len(all))
	for i, l := range all {
		logDates[i] = l.Date
	}

	weekly, err := src.SumLogs(ctx, storage.LogQuery{
		UserID: user.ID,
		Since:  windowStart(now, weeklyWindowDays),
		Before: tomorrow(now),
	})
	if err != nil {
		return nil, fail(err)
	}

	totals, err := src.TopicTotals(ctx, user.ID)
	if err != nil {
		return nil, fail(err)
	}
	weak := []internal.TopicTotals{}
	for _, t := range totals {
		if t.TotalProblems >= weakTopicBelow {
			continue
		}
		weak = append(weak, t)
		if len(weak) == dashboardListCap {
			break
		}
	}

	skills, err := src.ListSkillsBelow(ctx, user.ID, lowConfidence, dashboardListCap)
	if err != nil {
		return nil, fail(err)
	}

	return &DashboardStats{
		Streak:              dates.Streak(logDates, now),
		WeeklyProblems:      weekly.Problems,
		WeeklyRevisions:     weekly.Revisions,
		AvgStars:            average(weekly.Stars, weekly.Count),
		TotalLogs:           len(all),
		WeakTopics:          weak,
		LowConfidenceSkills: skills,
	}, nil
}

// GetChartData returns exactly 14 zero-filled days ending today, oldest first,
// grouped by calendar day in now's location.
func GetChartData(ctx context.Context, src DashboardSource, user *internal.User, now time.Time) (*ChartData, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	fail := func(err error) error {
		return internal.WrapAppError(http.StatusInternalServerError, "Failed to load chart data", err)
	}

	start := windowStart(now, chartDays)
	logs, err := src.ListLogs(ctx, storage.LogQuery{UserID: user.ID, Since: start, Before: tomorrow(now)})
	if err != nil {
		return nil, fail(err)
	}

	byDay := make(map[string]*DailyProgress, chartDays)
	series := make([]DailyProgress, chartDays)
	for i := range series {
		key := dates.ISODate(start.AddDate(0, 0, i))
		series[i] = DailyProgress{Date: key}
		byDay[key] = &series[i]
	}
	for _, l := range logs {
		if day, ok := byDay[dates.ISODate(l.Date.In(now.Location()))]; ok {
			day.Problems += l.ProblemsSolved
			day.Revisions += l.RevisionVolume
		}
	}

	skills, err := src.ListSkills(ctx, user.ID)
	if err != nil {
		return nil, fail(err)
	}
	confidence := make([]SkillConfidence, 0, len(skills))
	for _, s := range skills {
		confidence = append(confidence, SkillConfidence{Skill: s.Skill, Confidence: s.Confidence})
	}

	return &ChartData{DailyProgress: series, SkillConfidence: confidence}, nil
}
