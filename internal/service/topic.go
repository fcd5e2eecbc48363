package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

type TopicDetails struct {
	Topic *internal.Topic         `json:"topic"`
	Logs  []internal.LogWithTopic `json:"logs"`
}

func ListTopics(ctx context.Context, topics storage.TopicRepository, user *internal.User) ([]internal.TopicWithCount, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	list, err := topics.ListTopics(ctx, user.ID)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch topics", err)
	}
	return list, nil
}

func CreateTopic(ctx context.Context, topics storage.TopicRepository, user *internal.User, form TopicForm) (*internal.Topic, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateTopic(form)
	if err != nil {
		return nil, err
	}
	topic := &internal.Topic{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      in.Name,
		Category:  in.Category,
		CreatedAt: time.Now().UTC(),
	}
	if err := topics.CreateTopic(ctx, topic); err != nil {
		return nil, mutationFailure(err, "Topic already exists", "Failed to create topic")
	}
	return topic, nil
}

func UpdateTopic(ctx context.Context, topics storage.TopicRepository, user *internal.User, id string, form TopicForm) (*internal.Topic, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateTopic(form)
	if err != nil {
		return nil, err
	}
	topic := &internal.Topic{ID: id, UserID: user.ID, Name: in.Name, Category: in.Category}
	if err := topics.UpdateTopic(ctx, topic); err != nil {
		return nil, mutationFailure(err, "Topic already exists", "Failed to update topic")
	}
	updated, err := topics.GetTopic(ctx, user.ID, id)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to update topic", err)
	}
	return updated, nil
}

func DeleteTopic(ctx context.Context, topics storage.TopicRepository, user *internal.User, id string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := topics.DeleteTopic(ctx, user.ID, id); err != nil {
		return mutationFailure(err, "", "Failed to delete topic")
	}
	return nil
}

// GetTopicDetails returns nil, nil when the topic does not exist or belongs to someone else.
func GetTopicDetails(ctx context.Context, store TopicLogSource, user *internal.User, id string) (*TopicDetails, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	topic, err := store.GetTopic(ctx, user.ID, id)
	if errors.Is(err, internal.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch topic", err)
	}
	logs, err := store.ListLogs(ctx, storage.LogQuery{UserID: user.ID, TopicID: id})
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch topic", err)
	}
	return &TopicDetails{Topic: topic, Logs: logs}, nil
}
