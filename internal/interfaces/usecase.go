package interfaces

import "github.com/gin-gonic/gin"

// Usecase is the HTTP facing surface of the blog
type Usecase interface {
	ListPostsHandler(c *gin.Context)
	GetPostHandler(c *gin.Context)
	RecordViewHandler(c *gin.Context)
	ViewStatsHandler(c *gin.Context)
}
