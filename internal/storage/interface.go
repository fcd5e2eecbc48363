package storage

import (
	"context"
	"time"

	"github.com/yourname/devtrack/internal"
)

// Owner-scoped methods take the caller's user id and report internal.ErrNotFound
// when no row matches both the id and the owner. Unique violations are reported
// as internal.ErrDuplicate.

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUserByID(ctx context.Context, id string) (*internal.User, error)
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	// UpdateUser writes name, bio, avatar url and visibility.
	UpdateUser(ctx context.Context, user *internal.User) error
}

type TopicRepository interface {
	CreateTopic(ctx context.Context, topic *internal.Topic) error
	UpdateTopic(ctx context.Context, topic *internal.Topic) error
	// DeleteTopic removes the topic with its logs and detaches resources.
	DeleteTopic(ctx context.Context, userID, id string) error
	GetTopic(ctx context.Context, userID, id string) (*internal.Topic, error)
	// ListTopics is ordered newest first.
	ListTopics(ctx context.Context, userID string) ([]internal.TopicWithCount, error)
	CountTopics(ctx context.Context, userID string) (int, error)
	// TopicTotals is ordered by creation, oldest first.
	TopicTotals(ctx context.Context, userID string) ([]internal.TopicTotals, error)
}

// LogQuery filters a user's logs. Zero values disable a filter.
type LogQuery struct {
	UserID     string
	TopicID    string
	Since      time.Time // date >= Since
	Before     time.Time // date < Before
	PublicOnly bool
	Limit      int
}

type LogRepository interface {
	CreateLog(ctx context.Context, log *internal.DailyLog) error
	// UpdateLog sets log.CreatedAt to the stored value.
	UpdateLog(ctx context.Context, log *internal.DailyLog) error
	DeleteLog(ctx context.Context, userID, id string) error
	// ListLogs is ordered by log date, newest first.
	ListLogs(ctx context.Context, q LogQuery) ([]internal.LogWithTopic, error)
	SumLogs(ctx context.Context, q LogQuery) (internal.LogTotals, error)
	// ListPublicLogs returns logs where both the log and its owner are public,
	// newest created first.
	ListPublicLogs(ctx context.Context, offset, limit int) ([]internal.FeedEntry, error)
	CountPublicLogs(ctx context.Context) (int, error)
}

type SkillRepository interface {
	CreateSkill(ctx context.Context, skill *internal.BackendSkill) error
	UpdateSkill(ctx context.Context, skill *internal.BackendSkill) error
	DeleteSkill(ctx context.Context, userID, id string) error
	// ListSkills is ordered newest first.
	ListSkills(ctx context.Context, userID string) ([]internal.BackendSkill, error)
	// ListSkillsBelow returns up to limit skills with confidence < below.
	ListSkillsBelow(ctx context.Context, userID string, below, limit int) ([]internal.BackendSkill, error)
}

type ResourceRepository interface {
	CreateResource(ctx context.Context, res *internal.Resource) error
	DeleteResource(ctx context.Context, userID, id string) error
	// ListPublicResources is ordered by upvotes then creation, both descending.
	// An empty topicID lists every topic.
	ListPublicResources(ctx context.Context, topicID string, limit int) ([]internal.ResourceEntry, error)
	// ListUserResources is ordered newest first.
	ListUserResources(ctx context.Context, userID string) ([]internal.ResourceEntry, error)
	// UpvoteResource increments the counter atomically.
	UpvoteResource(ctx context.Context, id string) error
}

type Store interface {
	UserRepository
	TopicRepository
	LogRepository
	SkillRepository
	ResourceRepository
	Close() error
}
