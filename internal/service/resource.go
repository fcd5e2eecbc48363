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

// ListResources is public. An empty topicID lists every topic.
func ListResources(ctx context.Context, resources storage.ResourceRepository, topicID string) ([]internal.ResourceEntry, error) {
	list, err := resources.ListPublicResources(ctx, topicID, publicResourceCap)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch resources", err)
	}
	return list, nil
}

func ListMyResources(ctx context.Context, resources storage.ResourceRepository, user *internal.User) ([]internal.ResourceEntry, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	list, err := resources.ListUserResources(ctx, user.ID)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch resources", err)
	}
	return list, nil
}

type ResourceStore interface {
	storage.TopicRepository
	storage.ResourceRepository
}

func CreateResource(ctx context.Context, store ResourceStore, user *internal.User, form ResourceForm) (*internal.Resource, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateResource(form)
	if err != nil {
		return nil, err
	}
	if in.TopicID != "" {
		if err := ownTopic(ctx, store, user.ID, in.TopicID, "Failed to create resource"); err != nil {
			return nil, err
		}
	}
	res := &internal.Resource{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Type:        in.Type,
		TopicID:     in.TopicID,
		IsPublic:    in.IsPublic,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateResource(ctx, res); err != nil {
		return nil, mutationFailure(err, "", "Failed to create resource")
	}
	return res, nil
}

// UpvoteResource lets any signed-in user upvote any resource.
func UpvoteResource(ctx context.Context, resources storage.ResourceRepository, user *internal.User, id string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := resources.UpvoteResource(ctx, id); err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return internal.WrapAppError(http.StatusNotFound, "Resource not found", err)
		}
		return internal.WrapAppError(http.StatusInternalServerError, "Failed to upvote resource", err)
	}
	return nil
}

func DeleteResource(ctx context.Context, resources storage.ResourceRepository, user *internal.User, id string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := resources.DeleteResource(ctx, user.ID, id); err != nil {
		return mutationFailure(err, "", "Failed to delete resource")
	}
	return nil
}
