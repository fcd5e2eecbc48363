package response

import (
	"net/http"

	"github.com/yourname/devtrack/internal"
)

// APIResponse is the envelope of every JSON reply. Error carries the single
// human-readable message of a failed operation.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    int            `json:"code,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Success: true, Data: data, Meta: meta}
}

func Failure(status int, msg string) APIResponse {
	return APIResponse{Error: msg, Code: status}
}

func FromAppError(err *internal.AppError) APIResponse {
	return Failure(err.Code, err.Message)
}

func Unauthorized() APIResponse {
	return Failure(http.StatusUnauthorized, "Unauthorized")
}

func NotFound(msg string) APIResponse {
	return Failure(http.StatusNotFound, msg)
}
