package internal

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate key value")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError is the user-facing failure of an operation. Message is shown verbatim.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func WrapAppError(code int, msg string, err error) *AppError {
	return &AppError{Code: code, Message: msg, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// AsAppError converts any error into an AppError, defaulting to a 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ErrUnauthorized) {
		return WrapAppError(http.StatusUnauthorized, "Unauthorized", err)
	}
	if errors.Is(err, ErrNotFound) {
		return WrapAppError(http.StatusNotFound, "Not found", err)
	}
	return WrapAppError(http.StatusInternalServerError, "Something went wrong", err)
}
