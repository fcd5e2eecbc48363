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

// ListLogs returns the caller's logs by date, newest first. limit <= 0 means DefaultLogLimit.
func ListLogs(ctx context.Context, logs storage.LogRepository, user *internal.User, limit int) ([]internal.LogWithTopic, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	list, err := logs.ListLogs(ctx, storage.LogQuery{UserID: user.ID, Limit: limit})
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch logs", err)
	}
	return list, nil
}

// ownTopic checks the referenced topic belongs to the caller.
func ownTopic(ctx context.Context, topics storage.TopicRepository, userID, topicID, failMsg string) error {
	_, err := topics.GetTopic(ctx, userID, topicID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, internal.ErrNotFound):
		return internal.WrapAppError(http.StatusBadRequest, "Topic not found", err)
	default:
		return internal.WrapAppError(http.StatusInternalServerError, failMsg, err)
	}
}

// CreateLog records a practice session. now supplies the default date and its location.
func CreateLog(ctx context.Context, store TopicLogSource, user *internal.User, form LogForm, now time.Time) (*internal.DailyLog, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateLog(form, now)
	if err != nil {
		return nil, err
	}
	if err := ownTopic(ctx, store, user.ID, in.TopicID, "Failed to create log"); err != nil {
		return nil, err
	}

	log := &internal.DailyLog{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now.UTC(),
	}
	applyLogInput(log, in)
	if err := store.CreateLog(ctx, log); err != nil {
		return nil, mutationFailure(err, "", "Failed to create log")
	}
	return log, nil
}

func UpdateLog(ctx context.Context, store TopicLogSource, user *internal.User, id string, form LogForm, now time.Time) (*internal.DailyLog, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateLog(form, now)
	if err != nil {
		return nil, err
	}
	if err := ownTopic(ctx, store, user.ID, in.TopicID, "Failed to update log"); err != nil {
		return nil, err
	}

	log := &internal.DailyLog{ID: id, UserID: user.ID}
	applyLogInput(log, in)
	if err := store.UpdateLog(ctx, log); err != nil {
		return nil, mutationFailure(err, "", "Failed to update log")
	}
	return log, nil
}

func DeleteLog(ctx context.Context, logs storage.LogRepository, user *internal.User, id string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := logs.DeleteLog(ctx, user.ID, id); err != nil {
		return mutationFailure(err, "", "Failed to delete log")
	}
	return nil
}

func applyLogInput(log *internal.DailyLog, in *LogInput) {
	log.TopicID = in.TopicID
	log.Date = in.Date
	log.Energy = in.Energy
	log.ProblemsSolved = in.ProblemsSolved
	log.RevisionVolume = in.RevisionVolume
	log.BackendWork = in.BackendWork
	log.TechUsed = in.TechUsed
	log.Notes = in.Notes
	log.ProblemURLs = in.ProblemURLs
	log.Stars = in.Stars
	log.IsPublic = in.IsPublic
}
