package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

var now = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func newStore(t *testing.T) *storage.FileStorage {
	t.Helper()
	s := storage.NewMemoryStorage(internal.NewNopLogger())
	t.Cleanup(func() { s.Close() })
	return s
}

func addUser(t *testing.T, s storage.Store, id string, public bool) *internal.User {
	t.Helper()
	u := &internal.User{ID: id, Name: "User " + id, Email: id + "@example.com", PasswordHash: "x", IsPublic: public, CreatedAt: now}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func addTopic(t *testing.T, s storage.Store, userID, name string, order int) *internal.Topic {
	t.Helper()
	topic := &internal.Topic{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Category:  internal.CategoryDSA,
		CreatedAt: now.Add(time.Duration(order) * time.Minute),
	}
	require.NoError(t, s.CreateTopic(context.Background(), topic))
	return topic
}

type logSpec struct {
	date      time.Time
	problems  int
	revisions int
	stars     int
	public    bool
}

func addLog(t *testing.T, s storage.Store, userID, topicID string, opts logSpec) *internal.DailyLog {
	t.Helper()
	if opts.stars == 0 {
		opts.stars = 3
	}
	l := &internal.DailyLog{
		ID:             uuid.NewString(),
		UserID:         userID,
		TopicID:        topicID,
		Date:           opts.date,
		Energy:         3,
		ProblemsSolved: opts.problems,
		RevisionVolume: opts.revisions,
		ProblemURLs:    []string{},
		Stars:          opts.stars,
		IsPublic:       opts.public,
		CreatedAt:      opts.date,
	}
	require.NoError(t, s.CreateLog(context.Background(), l))
	return l
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func requireAppError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var appErr *internal.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, msg, appErr.Message)
}
