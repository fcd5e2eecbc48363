//go:build integration
// +build integration

package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yourname/devtrack/internal"
)

// setupPostgres starts a container and returns a migrated store.
func setupPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("devtrack"),
		postgres.WithUsername("devtrack"),
		postgres.WithPassword("devtrack"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewPostgresStorage(ctx, dsn, internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(ctx))
	// idempotent
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestPostgres_EndToEnd(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("u1", true)))
	require.NoError(t, s.CreateUser(ctx, newUser("u2", false)))
	dup := newUser("u3", true)
	dup.Email = "u1@example.com"
	assert.ErrorIs(t, s.CreateUser(ctx, dup), internal.ErrDuplicate)

	seedTopic(t, s, "u1", "t1", "Graphs", 0)
	seedTopic(t, s, "u1", "t2", "Trees", 1)
	seedTopic(t, s, "u2", "t3", "Graphs", 0)
	err := s.CreateTopic(ctx, &internal.Topic{ID: "t4", UserID: "u1", Name: "Graphs", Category: internal.CategoryDSA, CreatedAt: base})
	assert.ErrorIs(t, err, internal.ErrDuplicate)

	seedLog(t, s, "u1", "t1", 0, 2, true)
	seedLog(t, s, "u1", "t1", 1, 3, false)
	seedLog(t, s, "u1", "t2", 2, 1, true)
	seedLog(t, s, "u2", "t3", 0, 9, true)

	logs, err := s.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Trees", logs[0].Topic.Name)
	assert.Equal(t, []string{"https://example.com/p"}, logs[0].ProblemURLs)

	totals, err := s.SumLogs(ctx, LogQuery{UserID: "u1", PublicOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, totals.Problems)
	assert.Equal(t, 2, totals.Count)

	topicTotals, err := s.TopicTotals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, topicTotals, 2)
	assert.Equal(t, 5, topicTotals[0].TotalProblems)

	n, err := s.CountPublicLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "u2 is private")

	feed, err := s.ListPublicLogs(ctx, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "User u1", feed[0].User.Name)

	assert.ErrorIs(t, s.DeleteTopic(ctx, "u2", "t1"), internal.ErrNotFound)
	require.NoError(t, s.DeleteTopic(ctx, "u1", "t1"))
	logs, err = s.ListLogs(ctx, LogQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPostgres_ResourcesAndUpvotes(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newUser("u1", true)))
	seedTopic(t, s, "u1", "t1", "Graphs", 0)
	require.NoError(t, s.CreateResource(ctx, &internal.Resource{ID: "r1", UserID: "u1", Title: "A", URL: "https://a", Type: internal.ResourceVideo, TopicID: "t1", IsPublic: true, CreatedAt: base}))
	require.NoError(t, s.CreateResource(ctx, &internal.Resource{ID: "r2", UserID: "u1", Title: "B", URL: "https://b", Type: internal.ResourceCourse, IsPublic: true, CreatedAt: base.Add(time.Minute)}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.UpvoteResource(ctx, "r1"))
		}()
	}
	wg.Wait()

	res, err := s.ListPublicResources(ctx, "", 50)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "r1", res[0].ID)
	assert.Equal(t, 20, res[0].Upvotes)
	require.NotNil(t, res[0].Topic)
	assert.Equal(t, "Graphs", res[0].Topic.Name)
	assert.Nil(t, res[1].Topic)

	require.NoError(t, s.DeleteTopic(ctx, "u1", "t1"))
	mine, err := s.ListUserResources(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, r := range mine {
		assert.Empty(t, r.TopicID)
		assert.Nil(t, r.User)
	}
}
