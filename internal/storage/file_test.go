package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/devtrack/internal"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newUser(id string, public bool) *internal.User {
	return &internal.User{ID: id, Name: "User " + id, Email: id + "@example.com", PasswordHash: "x", IsPublic: public, CreatedAt: base}
}

func seedTopic(t *testing.T, s Store, userID, id, name string, offset int) *internal.Topic {
	t.Helper()
	topic := &internal.Topic{ID: id, UserID: userID, Name: name, Category: internal.CategoryDSA, CreatedAt: base.Add(time.Duration(offset) * time.Minute)}
	require.NoError(t, s.CreateTopic(context.Background(), topic))
	return topic
}

func seedLog(t *testing.T, s Store, userID, topicID string, day, problems int, public bool) *internal.DailyLog {
	t.Helper()
	l := &internal.DailyLog{
		ID:             fmt.Sprintf("%s-%s-%d-%d", userID, topicID, day, problems),
		UserID:         userID,
		TopicID:        topicID,
		Date:           base.AddDate(0, 0, day),
		Energy:         3,
		ProblemsSolved: problems,
		RevisionVolume: 1,
		ProblemURLs:    []string{"https://example.com/p"},
		Stars:          4,
		IsPublic:       public,
		CreatedAt:      base.AddDate(0, 0, day),
	}
	require.NoError(t, s.CreateLog(context.Background(), l))
	return l
}

func TestFileStorage_UserUniqueEmail(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("u1", true)))

	dup := newUser("u2", true)
	dup.Email = "u1@example.com"
	assert.ErrorIs(t, s.CreateUser(ctx, dup), internal.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestFileStorage_TopicOwnershipAndUniqueness(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	seedTopic(t, s, "u1", "t1", "Graphs", 0)

	err := s.CreateTopic(ctx, &internal.Topic{ID: "t2", UserID: "u1", Name: "Graphs", Category: internal.CategoryDSA})
	assert.ErrorIs(t, err, internal.ErrDuplicate)

	// same name for another user is fine
	seedTopic(t, s, "u2", "t3", "Graphs", 1)

	_, err = s.GetTopic(ctx, "u2", "t1")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTopic(ctx, "u2", "t1"), internal.ErrNotFound)
	assert.ErrorIs(t, s.UpdateTopic(ctx, &internal.Topic{ID: "t1", UserID: "u2", Name: "Mine"}), internal.ErrNotFound)
}

func TestFileStorage_DeleteTopicCascades(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("u1", true)))
	seedTopic(t, s, "u1", "t1", "Graphs", 0)
	seedTopic(t, s, "u1", "t2", "Trees", 1)
	seedLog(t, s, "u1", "t1", 0, 2, true)
	seedLog(t, s, "u1", "t2", 0, 3, true)
	require.NoError(t, s.CreateResource(ctx, &internal.Resource{ID: "r1", UserID: "u1", Title: "CLRS", URL: "https://x", Type: internal.ResourceArticle, TopicID: "t1", IsPublic: true}))

	require.NoError(t, s.DeleteTopic(ctx, "u1", "t1"))

	logs, err := s.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "t2", logs[0].TopicID)

	res, err := s.ListUserResources(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Empty(t, res[0].TopicID)
	assert.Nil(t, res[0].Topic)
}

func TestFileStorage_ListTopicsAndTotals(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	seedTopic(t, s, "u1", "t1", "Arrays", 0)
	seedTopic(t, s, "u1", "t2", "Graphs", 1)
	seedLog(t, s, "u1", "t1", 0, 2, false)
	seedLog(t, s, "u1", "t1", 1, 4, false)

	topics, err := s.ListTopics(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "t2", topics[0].ID, "newest first")
	assert.Equal(t, 0, topics[0].LogCount)
	assert.Equal(t, 2, topics[1].LogCount)

	totals, err := s.TopicTotals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "t1", totals[0].ID, "oldest first")
	assert.Equal(t, 6, totals[0].TotalProblems)
	assert.Equal(t, 0, totals[1].TotalProblems)

	n, err := s.CountTopics(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFileStorage_ListLogsFilters(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	seedTopic(t, s, "u1", "t1", "Arrays", 0)
	seedLog(t, s, "u1", "t1", 0, 1, true)
	seedLog(t, s, "u1", "t1", 3, 2, false)
	seedLog(t, s, "u1", "t1", 5, 3, true)

	logs, err := s.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 3, logs[0].ProblemsSolved, "latest date first")
	assert.Equal(t, "Arrays", logs[0].Topic.Name)

	logs, err = s.ListLogs(ctx, LogQuery{UserID: "u1", Since: base.AddDate(0, 0, 3)})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = s.ListLogs(ctx, LogQuery{UserID: "u1", Since: base.AddDate(0, 0, 3), Before: base.AddDate(0, 0, 5)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 2, logs[0].ProblemsSolved)

	logs, err = s.ListLogs(ctx, LogQuery{UserID: "u1", PublicOnly: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 3, logs[0].ProblemsSolved)

	totals, err := s.SumLogs(ctx, LogQuery{UserID: "u1", PublicOnly: true})
	require.NoError(t, err)
	assert.Equal(t, internal.LogTotals{Problems: 4, Revisions: 2, Stars: 8, Count: 2}, totals)
}

func TestFileStorage_ListLogsReturnsCopies(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	seedLog(t, s, "u1", "t1", 0, 1, true)

	logs, err := s.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	logs[0].ProblemURLs[0] = "mutated"

	logs, err = s.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/p", logs[0].ProblemURLs[0])
}

func TestFileStorage_PublicFeedRequiresPublicUser(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("pub", true)))
	require.NoError(t, s.CreateUser(ctx, newUser("priv", false)))
	seedTopic(t, s, "pub", "t1", "Arrays", 0)
	seedTopic(t, s, "priv", "t2", "Arrays", 0)
	seedLog(t, s, "pub", "t1", 0, 1, true)
	seedLog(t, s, "pub", "t1", 1, 2, false)
	seedLog(t, s, "pub", "t1", 2, 3, true)
	seedLog(t, s, "priv", "t2", 0, 4, true)

	n, err := s.CountPublicLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	feed, err := s.ListPublicLogs(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, 3, feed[0].ProblemsSolved, "newest created first")
	assert.Equal(t, "User pub", feed[0].User.Name)
	assert.Equal(t, internal.CategoryDSA, feed[0].Topic.Category)

	feed, err = s.ListPublicLogs(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFileStorage_Skills(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	for i, conf := range []int{1, 4, 2, 2, 1, 2, 1} {
		err := s.CreateSkill(ctx, &internal.BackendSkill{ID: fmt.Sprintf("s%d", i), UserID: "u1", Skill: fmt.Sprintf("skill-%d", i), Confidence: conf, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	err := s.CreateSkill(ctx, &internal.BackendSkill{ID: "dup", UserID: "u1", Skill: "skill-0", Confidence: 3})
	assert.ErrorIs(t, err, internal.ErrDuplicate)

	low, err := s.ListSkillsBelow(ctx, "u1", 3, 5)
	require.NoError(t, err)
	assert.Len(t, low, 5)
	for _, sk := range low {
		assert.Less(t, sk.Confidence, 3)
	}

	assert.ErrorIs(t, s.DeleteSkill(ctx, "u2", "s0"), internal.ErrNotFound)
	require.NoError(t, s.DeleteSkill(ctx, "u1", "s0"))
	all, err := s.ListSkills(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestFileStorage_ResourcesOrderAndUpvote(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("u1", true)))
	seedTopic(t, s, "u1", "t1", "Graphs", 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateResource(ctx, &internal.Resource{
			ID: fmt.Sprintf("r%d", i), UserID: "u1", Title: "R", URL: "https://x", Type: internal.ResourceVideo,
			TopicID: map[bool]string{true: "t1"}[i == 1], IsPublic: true, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.UpvoteResource(ctx, "r0"))
	assert.ErrorIs(t, s.UpvoteResource(ctx, "missing"), internal.ErrNotFound)

	res, err := s.ListPublicResources(ctx, "", 50)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "r0", res[0].ID)
	assert.Equal(t, "r2", res[1].ID)
	assert.Equal(t, "User u1", res[0].User.Name)

	res, err = s.ListPublicResources(ctx, "t1", 50)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Graphs", res[0].Topic.Name)
}

func TestFileStorage_ConcurrentUpvotes(t *testing.T) {
	s := NewMemoryStorage(internal.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, s.CreateResource(ctx, &internal.Resource{ID: "r1", UserID: "u1", Title: "R", URL: "https://x", Type: internal.ResourceOther, IsPublic: true}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.UpvoteResource(ctx, "r1")
		}()
	}
	wg.Wait()

	res, err := s.ListUserResources(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, res[0].Upvotes)
}

func TestFileStorage_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "devtrack.json")
	ctx := context.Background()

	s, err := NewFileStorage(path, internal.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(ctx, newUser("u1", true)))
	seedTopic(t, s, "u1", "t1", "Graphs", 0)
	seedLog(t, s, "u1", "t1", 0, 7, true)
	require.NoError(t, s.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	reopened, err := NewFileStorage(path, internal.NewNopLogger())
	require.NoError(t, err)
	defer reopened.Close()

	logs, err := reopened.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7, logs[0].ProblemsSolved)
	assert.Equal(t, "Graphs", logs[0].Topic.Name)
}

func TestFileStorage_PublicFeedStableOnTiedCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(internal.NewNopLogger())
	defer s.Close()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateUser(ctx, newUser(id, true)))
		seedTopic(t, s, id, "t-"+id, "Graphs", 0)
		require.NoError(t, s.CreateLog(ctx, &internal.DailyLog{
			ID: "log-" + id, UserID: id, TopicID: "t-" + id, Date: base,
			Energy: 3, Stars: 4, IsPublic: true, CreatedAt: base,
		}))
	}

	for run := 0; run < 20; run++ {
		var got []string
		for offset := 0; offset < 3; offset++ {
			page, err := s.ListPublicLogs(ctx, offset, 1)
			require.NoError(t, err)
			require.Len(t, page, 1)
			got = append(got, page[0].ID)
		}
		assert.Equal(t, []string{"log-c", "log-b", "log-a"}, got)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "sqlite", "", "", internal.NewNopLogger())
	assert.Error(t, err)
}
