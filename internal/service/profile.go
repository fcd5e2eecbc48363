package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

// GetProfile returns the caller's own profile, email included.
func GetProfile(ctx context.Context, users storage.UserRepository, user *internal.User) (*internal.Profile, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	u, err := users.GetUserByID(ctx, user.ID)
	if errors.Is(err, internal.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to fetch profile", err)
	}
	p := u.Profile(true)
	return &p, nil
}

func UpdateProfile(ctx context.Context, users storage.UserRepository, user *internal.User, form ProfileForm) (*internal.Profile, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	in, err := ValidateProfile(form)
	if err != nil {
		return nil, err
	}
	u, err := users.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, mutationFailure(err, "", "Failed to update profile")
	}
	u.Name = in.Name
	u.Bio = in.Bio
	u.AvatarURL = in.AvatarURL
	u.IsPublic = in.IsPublic
	if err := users.UpdateUser(ctx, u); err != nil {
		return nil, mutationFailure(err, "", "Failed to update profile")
	}
	p := u.Profile(true)
	return &p, nil
}
