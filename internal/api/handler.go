package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal/auth"
	"github.com/yourname/devtrack/internal/response"
)

// NewRouter mounts every route on a fresh engine. Sign-in routes are only
// mounted when the app issues its own tokens.
func NewRouter(app App, provider auth.Provider, origins []string) *gin.Engine {
	logger := app.Logger()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(logger))
	r.Use(CORSMiddleware(origins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(gin.H{"status": "ok"}, nil))
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.NotFound("Not found"))
	})

	if app.Tokens() != nil {
		r.POST("/auth/register", PostRegister(app))
		r.POST("/auth/login", PostLogin(app))
	}

	public := r.Group("/")
	public.Use(auth.OptionalUser(provider, logger))
	public.GET("/feed", GetFeed(app))
	public.GET("/users/:id", GetUserProfile(app))
	public.GET("/resources", GetResources(app))

	private := r.Group("/")
	private.Use(auth.RequireUser(provider, logger))

	private.GET("/dashboard", GetDashboard(app))
	private.GET("/analytics", GetAnalytics(app))

	private.GET("/topics", GetTopics(app))
	private.POST("/topics", PostTopic(app))
	private.GET("/topics/:id", GetTopic(app))
	private.PUT("/topics/:id", PutTopic(app))
	private.DELETE("/topics/:id", DeleteTopic(app))

	private.GET("/logs", GetLogs(app))
	private.POST("/logs", PostLog(app))
	private.PUT("/logs/:id", PutLog(app))
	private.DELETE("/logs/:id", DeleteLog(app))

	private.GET("/skills", GetSkills(app))
	private.POST("/skills", PostSkill(app))
	private.PUT("/skills/:id", PutSkill(app))
	private.DELETE("/skills/:id", DeleteSkill(app))

	private.GET("/resources/mine", GetMyResources(app))
	private.POST("/resources", PostResource(app))
	private.POST("/resources/:id/upvote", PostUpvote(app))
	private.DELETE("/resources/:id", DeleteResource(app))

	private.GET("/profile", GetProfile(app))
	private.PUT("/profile", PutProfile(app))

	return r
}
