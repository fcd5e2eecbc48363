package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, 20},
		{-3, 5, 1, 5},
		{2, 500, 2, 100},
		{4, 10, 4, 10},
	}
	for _, tc := range cases {
		page, limit := NormalizePage(tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, page)
		assert.Equal(t, tc.wantLimit, limit)
	}
}

func TestGetPublicFeed_Pagination(t *testing.T) {
	s := newStore(t)
	addUser(t, s, "pub", true)
	topic := addTopic(t, s, "pub", "Graphs", 0)
	for i := 0; i < 25; i++ {
		addLog(t, s, "pub", topic.ID, logSpec{date: now.Add(-time.Duration(i) * time.Hour), problems: i, public: true})
	}

	page1, err := GetPublicFeed(context.Background(), s, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page1.Logs, 20)
	assert.True(t, page1.HasMore)
	assert.Equal(t, 25, page1.Total)
	assert.Equal(t, 0, page1.Logs[0].ProblemsSolved, "newest created first")

	page2, err := GetPublicFeed(context.Background(), s, 2, 20)
	require.NoError(t, err)
	assert.Len(t, page2.Logs, 5)
	assert.False(t, page2.HasMore)
	assert.Equal(t, 25, page2.Total)

	page3, err := GetPublicFeed(context.Background(), s, 3, 20)
	require.NoError(t, err)
	assert.Empty(t, page3.Logs)
	assert.False(t, page3.HasMore)
}

func TestGetPublicFeed_Visibility(t *testing.T) {
	s := newStore(t)
	addUser(t, s, "pub", true)
	addUser(t, s, "priv", false)
	pubTopic := addTopic(t, s, "pub", "Graphs", 0)
	privTopic := addTopic(t, s, "priv", "Trees", 0)
	addLog(t, s, "pub", pubTopic.ID, logSpec{date: now, problems: 1, public: true})
	addLog(t, s, "pub", pubTopic.ID, logSpec{date: now, problems: 2, public: false})
	addLog(t, s, "priv", privTopic.ID, logSpec{date: now, problems: 3, public: true})

	feed, err := GetPublicFeed(context.Background(), s, 0, 0)
	require.NoError(t, err)
	require.Len(t, feed.Logs, 1)
	entry := feed.Logs[0]
	assert.Equal(t, 1, entry.ProblemsSolved)
	assert.Equal(t, "pub", entry.User.ID)
	assert.Equal(t, "User pub", entry.User.Name)
	assert.Equal(t, "Graphs", entry.Topic.Name)
	assert.Equal(t, 1, feed.Total)
}

func TestGetPublicProfile_PrivateUser(t *testing.T) {
	s := newStore(t)
	owner := addUser(t, s, "owner", false)
	visitor := addUser(t, s, "visitor", true)
	topic := addTopic(t, s, "owner", "Graphs", 0)
	addLog(t, s, "owner", topic.ID, logSpec{date: daysAgo(1), problems: 4, revisions: 2, stars: 4, public: false})
	addLog(t, s, "owner", topic.ID, logSpec{date: daysAgo(2), problems: 1, revisions: 1, stars: 5, public: true})

	profile, err := GetPublicProfile(context.Background(), s, "owner", visitor)
	require.NoError(t, err)
	assert.Nil(t, profile)

	profile, err = GetPublicProfile(context.Background(), s, "owner", nil)
	require.NoError(t, err)
	assert.Nil(t, profile)

	profile, err = GetPublicProfile(context.Background(), s, "owner", owner)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.IsOwner)
	assert.Equal(t, 5, profile.Stats.TotalProblems)
	assert.Equal(t, 3, profile.Stats.TotalRevisions)
	assert.Equal(t, 2, profile.Stats.TotalLogs)
	assert.Equal(t, 4.5, profile.Stats.AvgStars)
	assert.Equal(t, 1, profile.Stats.TopicCount)
	assert.Len(t, profile.RecentLogs, 2)
	assert.Empty(t, profile.User.Email)
}

func TestGetPublicProfile_VisitorSeesPublicLogsOnly(t *testing.T) {
	s := newStore(t)
	addUser(t, s, "owner", true)
	topic := addTopic(t, s, "owner", "Graphs", 0)
	addLog(t, s, "owner", topic.ID, logSpec{date: daysAgo(1), problems: 4, public: false})
	for i := 0; i < 12; i++ {
		addLog(t, s, "owner", topic.ID, logSpec{date: daysAgo(i + 2), problems: 1, stars: 4, public: true})
	}

	profile, err := GetPublicProfile(context.Background(), s, "owner", nil)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.False(t, profile.IsOwner)
	assert.Equal(t, 12, profile.Stats.TotalProblems)
	assert.Equal(t, 12, profile.Stats.TotalLogs)
	assert.Equal(t, 4.0, profile.Stats.AvgStars)
	require.Len(t, profile.RecentLogs, 10)
	for _, l := range profile.RecentLogs {
		assert.True(t, l.IsPublic)
		assert.Equal(t, "Graphs", l.Topic.Name)
	}
	assert.True(t, profile.RecentLogs[0].Date.After(profile.RecentLogs[9].Date))
}

func TestGetPublicProfile_Missing(t *testing.T) {
	profile, err := GetPublicProfile(context.Background(), newStore(t), "ghost", nil)
	require.NoError(t, err)
	assert.Nil(t, profile)
}
