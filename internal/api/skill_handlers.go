package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/service"
)

func GetSkills(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		skills, err := service.ListSkills(c.Request.Context(), app.Store(), auth.CurrentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), skills, map[string]any{"count": len(skills)})
	}
}

func PostSkill(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.SkillForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		skill, err := service.CreateSkill(c.Request.Context(), app.Store(), auth.CurrentUser(c), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleCreated(c, app.Logger(), skill)
	}
}

func PutSkill(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.SkillForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		skill, err := service.UpdateSkill(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id"), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), skill, nil)
	}
}

func DeleteSkill(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteSkill(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}
