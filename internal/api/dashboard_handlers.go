package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/service"
)

func GetDashboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := service.GetDashboardStats(c.Request.Context(), app.Store(), auth.CurrentUser(c), now(app))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func GetAnalytics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		charts, err := service.GetChartData(c.Request.Context(), app.Store(), auth.CurrentUser(c), now(app))
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), charts, nil)
	}
}

func GetFeed(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := service.NormalizePage(
			queryInt(c, "page", service.DefaultFeedPage),
			queryInt(c, "limit", service.DefaultFeedLimit),
		)
		feed, err := service.GetPublicFeed(c.Request.Context(), app.Store(), page, limit)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), feed, map[string]any{"page": page, "limit": limit})
	}
}
