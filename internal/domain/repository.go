package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrInvalidSubjectType = errors.New("invalid subject type")
)

// ViewRepository defines the interface for view event persistence
type ViewRepository interface {
	// Insert stores a new view event
	Insert(ctx context.Context, event *ViewEvent) error

	// HasViewSince reports whether the visitor viewed the subject at or after since
	HasViewSince(ctx context.Context, subject Subject, visitorID string, since time.Time) (bool, error)

	// CountViews returns the number of recorded views of the subject
	CountViews(ctx context.Context, subject Subject) (int64, error)

	// CountUniqueVisitors returns the number of distinct visitors of the subject
	CountUniqueVisitors(ctx context.Context, subject Subject) (int64, error)

	// DailyCounts returns per UTC day view counts since the given time, ascending by date
	DailyCounts(ctx context.Context, subject Subject, since time.Time) ([]DailyViews, error)
}

// ViewGuard atomically claims the right to count a visitor's view for ttl
type ViewGuard interface {
	Claim(ctx context.Context, subject Subject, visitorID string, ttl time.Duration) (bool, error)

	// Release drops a claim whose view could not be stored
	Release(ctx context.Context, subject Subject, visitorID string) error
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	FindActiveBySlug(ctx context.Context, slug string) (*Post, error)

	FindByID(ctx context.Context, id string) (*Post, error)

	// ListActive returns active posts, newest first
	ListActive(ctx context.Context, skip, limit int64) ([]Post, error)

	CountActive(ctx context.Context) (int64, error)

	// IncrementViews bumps the denormalized views counter by one and stamps updatedAt with at
	IncrementViews(ctx context.Context, id string, at time.Time) error
}
