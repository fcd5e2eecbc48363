package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

const (
	DefaultFeedPage  = 1
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

type Feed struct {
	Logs    []internal.FeedEntry `json:"logs"`
	HasMore bool                 `json:"has_more"`
	Total   int                  `json:"total"`
}

type ProfileStats struct {
	TotalProblems  int     `json:"total_problems"`
	TotalRevisions int     `json:"total_revisions"`
	TotalLogs      int     `json:"total_logs"`
	AvgStars       float64 `json:"avg_stars"`
	TopicCount     int     `json:"topic_count"`
}

type PublicProfile struct {
	User       internal.Profile        `json:"user"`
	Stats      ProfileStats            `json:"stats"`
	RecentLogs []internal.LogWithTopic `json:"recent_logs"`
	IsOwner    bool                    `json:"is_owner"`
}

type ProfileSource interface {
	storage.UserRepository
	TopicLogSource
}

// NormalizePage clamps feed paging to page >= 1 and 1 <= limit <= MaxFeedLimit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultFeedPage
	}
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	return page, limit
}

// GetPublicFeed lists logs whose owner and log are both public, newest created first.
func GetPublicFeed(ctx context.Context, logs storage.LogRepository, page, limit int) (*Feed, error) {
	page, limit = NormalizePage(page, limit)
	offset := (page - 1) * limit

	entries, err := logs.ListPublicLogs(ctx, offset, limit)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to load feed", err)
	}
	total, err := logs.CountPublicLogs(ctx)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to load feed", err)
	}
	return &Feed{
		Logs:    entries,
		HasMore: offset+len(entries) < total,
		Total:   total,
	}, nil
}

// GetPublicProfile returns nil, nil when the target is missing, or private and
// not the viewer. Visitors only see public logs; the owner sees everything.
func GetPublicProfile(ctx context.Context, store ProfileSource, targetID string, viewer *internal.User) (*PublicProfile, error) {
	isOwner := viewer != nil && viewer.ID == targetID

	target, err := store.GetUserByID(ctx, targetID)
	if errors.Is(err, internal.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to load profile", err)
	}
	if !target.IsPublic && !isOwner {
		return nil, nil
	}

	fail := func(err error) error {
		return internal.WrapAppError(http.StatusInternalServerError, "Failed to load profile", err)
	}
	q := storage.LogQuery{UserID: targetID, PublicOnly: !isOwner}
	totals, err := store.SumLogs(ctx, q)
	if err != nil {
		return nil, fail(err)
	}
	topicCount, err := store.CountTopics(ctx, targetID)
	if err != nil {
		return nil, fail(err)
	}
	q.Limit = recentLogsSize
	recent, err := store.ListLogs(ctx, q)
	if err != nil {
		return nil, fail(err)
	}

	return &PublicProfile{
		User: target.Profile(false),
		Stats: ProfileStats{
			TotalProblems:  totals.Problems,
			TotalRevisions: totals.Revisions,
			TotalLogs:      totals.Count,
			AvgStars:       average(totals.Stars, totals.Count),
			TopicCount:     topicCount,
		},
		RecentLogs: recent,
		IsOwner:    isOwner,
	}, nil
}
