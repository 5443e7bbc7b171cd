package usecase

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (u *blogUsecase) ListPostsHandler(c *gin.Context) {
	ctx, cancel := u.requestContext(c)
	defer cancel()

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit <= 0 {
		limit = 12
	}

	skip := int64((page - 1) * limit)

	results, err := u.posts.ListActive(ctx, skip, int64(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to query posts",
			"details": err.Error(),
		})
		return
	}

	totalCount, err := u.posts.CountActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count posts",
			"details": err.Error(),
		})
		return
	}

	totalPages := (totalCount + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      totalCount,
			"totalPages": totalPages,
		},
		"data": results,
	})
}

// GetPostHandler serves a post and counts the request as a view
func (u *blogUsecase) GetPostHandler(c *gin.Context) {
	ctx, cancel := u.requestContext(c)
	defer cancel()

	post, ok := u.findPost(ctx, c)
	if !ok {
		return
	}

	counted := u.countView(ctx, c, post)

	c.JSON(http.StatusOK, gin.H{
		"data":         post,
		"view_counted": counted,
	})
}
