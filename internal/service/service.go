// Package service holds the operations behind every endpoint. Each operation
// takes the caller's identity explicitly; a nil user is unauthenticated.
package service

import (
	"errors"
	"math"
	"net/http"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

const (
	// DefaultLogLimit caps log listings when the caller gives no limit.
	DefaultLogLimit   = 50
	publicResourceCap = 50
	recentLogsSize    = 10
)

// TopicLogSource is what operations joining topics with their logs read from.
type TopicLogSource interface {
	storage.TopicRepository
	storage.LogRepository
}

func requireUser(user *internal.User) error {
	if user == nil {
		return internal.WrapAppError(http.StatusUnauthorized, "Unauthorized", internal.ErrUnauthorized)
	}
	return nil
}

// mutationFailure maps a repository error on an owner-scoped write. A row that
// does not match the caller is reported as Unauthorized.
func mutationFailure(err error, conflictMsg, failMsg string) error {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return internal.WrapAppError(http.StatusForbidden, "Unauthorized", err)
	case conflictMsg != "" && errors.Is(err, internal.ErrDuplicate):
		return internal.WrapAppError(http.StatusConflict, conflictMsg, err)
	default:
		return internal.WrapAppError(http.StatusInternalServerError, failMsg, err)
	}
}

// roundOne rounds half up to one decimal place.
func roundOne(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func average(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return roundOne(float64(sum) / float64(count))
}
