package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var errBadCredentials = internal.NewAppError(http.StatusUnauthorized, "Invalid email or password")

// HashPassword hashes with the cost used for every stored credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a private account.
func Register(ctx context.Context, users storage.UserRepository, form RegisterForm) (*internal.User, error) {
	in, err := ValidateRegister(form)
	if err != nil {
		return nil, err
	}

	_, err = users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, internal.NewAppError(http.StatusConflict, "User already exists with this email")
	case !errors.Is(err, internal.ErrNotFound):
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Something went wrong", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Something went wrong", err)
	}
	user := &internal.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, internal.ErrDuplicate) {
			return nil, internal.WrapAppError(http.StatusConflict, "User already exists with this email", err)
		}
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Something went wrong", err)
	}
	return user, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func Login(ctx context.Context, users storage.UserRepository, form LoginForm) (*internal.User, error) {
	in, err := ValidateLogin(form)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Something went wrong", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}
