package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/service"
)

func GetTopics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		topics, err := service.ListTopics(c.Request.Context(), app.Store(), auth.CurrentUser(c))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), topics, map[string]any{"count": len(topics)})
	}
}

func GetTopic(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := service.GetTopicDetails(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		if details == nil {
			HandleNotFound(c, app.Logger(), "Topic not found")
			return
		}
		HandleSuccess(c, app.Logger(), details, nil)
	}
}

func PostTopic(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.TopicForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		topic, err := service.CreateTopic(c.Request.Context(), app.Store(), auth.CurrentUser(c), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleCreated(c, app.Logger(), topic)
	}
}

func PutTopic(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.TopicForm
		if !bindForm(c, app.Logger(), &form) {
			return
		}
		topic, err := service.UpdateTopic(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id"), form)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), topic, nil)
	}
}

func DeleteTopic(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteTopic(c.Request.Context(), app.Store(), auth.CurrentUser(c), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}
