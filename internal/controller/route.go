package controller

import (
	"net/http"

	"blog-views/internal/interfaces"
	"blog-views/internal/metrics"
	"blog-views/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RegisterRoutes(r *gin.Engine, u interfaces.Usecase, log zerolog.Logger) {
	r.Use(middleware.RequestID(), middleware.AccessLog(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Prefix all API routes with /api
	api := r.Group("/api")
	{
		api.GET("/posts", u.ListPostsHandler)
		api.GET("/posts/:slug", u.GetPostHandler)
		api.POST("/posts/:slug/views", u.RecordViewHandler)
		api.GET("/posts/:slug/views/stats", u.ViewStatsHandler)
	}
}
