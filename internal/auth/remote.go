package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

// RemoteAuthProvider asks an external session service who a token belongs to.
// The service answers {"id": "..."} with 200 for a live session.
type RemoteAuthProvider struct {
	AuthServiceURL string
	HTTPClient     *http.Client
	users          storage.UserRepository
	logger         internal.Logger
}

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	ID string `json:"id"`
}

func (a *RemoteAuthProvider) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	body, err := json.Marshal(sessionRequest{Token: token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.AuthServiceURL, bytes.NewReader(body))
	if err != nil {
		a.logger.Errorf("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		a.logger.Errorf("failed to call auth service: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		a.logger.Errorf("auth service returned %d", resp.StatusCode)
		return nil, errors.New("auth service returned non-200")
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		a.logger.Errorf("failed to decode auth response: %v", err)
		return nil, err
	}
	if session.ID == "" {
		return nil, ErrInvalidToken
	}
	user, err := a.users.GetUserByID(ctx, session.ID)
	if errors.Is(err, internal.ErrNotFound) {
		a.logger.Warnf("session for unknown user %s", session.ID)
		return nil, ErrInvalidToken
	}
	return user, err
}

func NewRemoteAuthProvider(url string, users storage.UserRepository, logger internal.Logger) *RemoteAuthProvider {
	return &RemoteAuthProvider{
		AuthServiceURL: url,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
		users:          users,
		logger:         logger,
	}
}
