package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/service"
)

type Session struct {
	Token string           `json:"token"`
	User  internal.Profile `json:"user"`
}

func PostRegister(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.RegisterForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		user, err := service.Register(c.Request.Context(), app.Store(), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		session, err := newSession(app, user)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleCreated(c, app.Logger(), session)
	}
}

func PostLogin(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.LoginForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		user, err := service.Login(c.Request.Context(), app.Store(), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		session, err := newSession(app, user)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), session, nil)
	}
}

func newSession(app App, user *internal.User) (*Session, error) {
	token, err := app.Tokens().IssueToken(user)
	if err != nil {
		return nil, internal.WrapAppError(http.StatusInternalServerError, "Failed to create session", err)
	}
	return &Session{Token: token, User: user.Profile(true)}, nil
}
