package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/service"
)

func GetResources(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := service.ListResources(c.Request.Context(), app.Store(), c.Query("topicId"))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), list, map[string]any{"count": len(list)})
	}
}

func GetMyResources(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := service.ListMyResources(c.Request.Context(), app.Store(), auth.CurrentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), list, map[string]any{"count": len(list)})
	}
}

func PostResource(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.ResourceForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		res, err := service.CreateResource(c.Request.Context(), app.Store(), auth.CurrentUser(c), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleCreated(c, app.Logger(), res)
	}
}

func PostUpvote(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.UpvoteResource(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}

func DeleteResource(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteResource(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}
