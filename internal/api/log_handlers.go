package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/service"
)

func GetLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", service.DefaultLogLimit)
		logs, err := service.ListLogs(c.Request.Context(), app.Store(), auth.CurrentUser(c), limit)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"count": len(logs)})
	}
}

func PostLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.LogForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		log, err := service.CreateLog(c.Request.Context(), app.Store(), auth.CurrentUser(c), form, now(app))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleCreated(c, app.Logger(), log)
	}
}

func PutLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.LogForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		log, err := service.UpdateLog(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id"), form, now(app))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func DeleteLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteLog(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}
