package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/service"
)

func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := service.GetProfile(c.Request.Context(), app.Store(), auth.CurrentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		if profile == nil {
			HandleNotFound(c, app.Logger(), "Profile not found")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func PutProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.ProfileForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		profile, err := service.UpdateProfile(c.Request.Context(), app.Store(), auth.CurrentUser(c), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

// GetUserProfile shows another user's profile. Private profiles are only
// visible to their owner.
func GetUserProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := service.GetPublicProfile(c.Request.Context(), app.Store(), c.Param("id"), auth.CurrentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		if profile == nil {
			HandleNotFound(c, app.Logger(), "Profile not found")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}
