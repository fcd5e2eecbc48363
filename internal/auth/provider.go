// Package auth resolves bearer tokens into users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

var ErrInvalidToken = errors.New("invalid token")

// Provider turns a bearer token into the user it identifies.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.User, error)
}

// TokenIssuer signs session tokens for users who signed in locally.
type TokenIssuer interface {
	IssueToken(user *internal.User) (string, error)
}

type Options struct {
	Mode       string
	Secret     string
	TTL        time.Duration
	ServiceURL string
}

// NewProvider builds the provider for opts.Mode. The issuer is nil in remote
// mode, where sign-in belongs to the external session service.
func NewProvider(opts Options, users storage.UserRepository, logger internal.Logger) (Provider, TokenIssuer, error) {
	switch opts.Mode {
	case ModeLocal, "":
		p := NewLocalAuthProvider(opts.Secret, opts.TTL, users, logger)
		return p, p, nil
	case ModeRemote:
		return NewRemoteAuthProvider(opts.ServiceURL, users, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("auth: unknown mode %q", opts.Mode)
	}
}
