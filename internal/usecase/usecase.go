package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blog-views/config"
	"blog-views/internal/domain"
	"blog-views/internal/interfaces"
	"blog-views/internal/service/views"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type blogUsecase struct {
	posts       domain.PostRepository
	viewService views.ViewService
	log         zerolog.Logger
	timeout     time.Duration
	defaultDays int
	now         func() time.Time
}

// NewBlogUsecase creates a new usecase instance with dependency injection
func NewBlogUsecase(posts domain.PostRepository, viewService views.ViewService, cfg *config.Config, log zerolog.Logger) interfaces.Usecase {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	days := cfg.ViewHistoryDays
	if days <= 0 {
		days = views.DefaultHistoryDays
	}

	return &blogUsecase{
		posts:       posts,
		viewService: viewService,
		log:         log,
		timeout:     timeout,
		defaultDays: days,
		now:         time.Now,
	}
}

func (u *blogUsecase) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), u.timeout)
}

// viewRequest describes the requester for visitor identity derivation
func viewRequest(c *gin.Context) domain.ViewRequest {
	return domain.ViewRequest{
		RemoteAddr: c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
}

// findPost loads an active post by slug and writes the error response when it fails
func (u *blogUsecase) findPost(ctx context.Context, c *gin.Context) (*domain.Post, bool) {
	post, err := u.posts.FindActiveBySlug(ctx, c.Param("slug"))
	if errors.Is(err, domain.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch post",
			"details": err.Error(),
		})
		return nil, false
	}
	return post, true
}

// countView records a view and bumps the post counter when it was counted
func (u *blogUsecase) countView(ctx context.Context, c *gin.Context, post *domain.Post) bool {
	counted := u.viewService.RecordView(ctx, post.Subject(), viewRequest(c))
	if !counted {
		return false
	}

	if err := u.posts.IncrementViews(ctx, post.ID.Hex(), u.now().UTC()); err != nil {
		u.log.Warn().Err(err).Str("post_id", post.ID.Hex()).Msg("failed to increment views_count")
		return true
	}
	post.ViewsCount++
	return true
}
