package api

import (
	"time"

	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Store() storage.Store
	// Tokens is nil when sign-in is handled by an external session service.
	Tokens() auth.TokenIssuer
	// Location is the timezone calendar days are computed in.
	Location() *time.Location
}

func now(app App) time.Time {
	return time.Now().In(app.Location())
}
