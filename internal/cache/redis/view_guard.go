package redis

import (
	"context"
	"fmt"
	"time"

	"blog-views/internal/domain"

	"github.com/redis/go-redis/v9"
)

const claimPrefix = "view:claim:"

// ViewGuard claims view slots with SET NX so that concurrent requests from
// one visitor produce at most one counted view per cooldown window.
type ViewGuard struct {
	client *redis.Client
}

func New(addr, pass string, db int) *ViewGuard {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, Password: pass, DB: db,
	})
	return &ViewGuard{client: rdb}
}

func NewWithClient(client *redis.Client) *ViewGuard {
	return &ViewGuard{client: client}
}

func claimKey(subject domain.Subject, visitorID string) string {
	return claimPrefix + string(subject.Type) + ":" + subject.ID + ":" + visitorID
}

// Claim returns true when the caller now owns the slot for ttl
func (g *ViewGuard) Claim(ctx context.Context, subject domain.Subject, visitorID string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, claimKey(subject, visitorID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim view slot: %w", err)
	}
	return ok, nil
}

func (g *ViewGuard) Release(ctx context.Context, subject domain.Subject, visitorID string) error {
	if err := g.client.Del(ctx, claimKey(subject, visitorID)).Err(); err != nil {
		return fmt.Errorf("failed to release view slot: %w", err)
	}
	return nil
}

func (g *ViewGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *ViewGuard) Close() error {
	return g.client.Close()
}
