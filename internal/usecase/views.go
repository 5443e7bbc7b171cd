package usecase

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (u *blogUsecase) RecordViewHandler(c *gin.Context) {
	ctx, cancel := u.requestContext(c)
	defer cancel()

	post, ok := u.findPost(ctx, c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"counted": u.countView(ctx, c, post)})
}

func (u *blogUsecase) ViewStatsHandler(c *gin.Context) {
	ctx, cancel := u.requestContext(c)
	defer cancel()

	days, err := strconv.Atoi(c.Query("days"))
	if err != nil || days <= 0 {
		days = u.defaultDays
	}

	post, ok := u.findPost(ctx, c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, u.viewService.Stats(ctx, post.Subject(), days))
}
