package views

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"blog-views/internal/domain"
)

var errStoreDown = errors.New("store down")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memoryRepo mirrors the Mongo repository semantics in memory
type memoryRepo struct {
	mu     sync.Mutex
	events []domain.ViewEvent
}

func (r *memoryRepo) Insert(_ context.Context, e *domain.ViewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *memoryRepo) HasViewSince(_ context.Context, s domain.Subject, visitorID string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if matches(e, s) && e.VisitorID == visitorID && !e.ViewedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) CountViews(_ context.Context, s domain.Subject) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if matches(e, s) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) CountUniqueVisitors(_ context.Context, s domain.Subject) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	for _, e := range r.events {
		if matches(e, s) {
			seen[e.VisitorID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *memoryRepo) DailyCounts(_ context.Context, s domain.Subject, since time.Time) ([]domain.DailyViews, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buckets := map[string]int64{}
	for _, e := range r.events {
		if matches(e, s) && !e.ViewedAt.Before(since) {
			buckets[e.ViewedAt.UTC().Format("2006-01-02")]++
		}
	}
	out := make([]domain.DailyViews, 0, len(buckets))
	for d, c := range buckets {
		out = append(out, domain.DailyViews{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *memoryRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func matches(e domain.ViewEvent, s domain.Subject) bool {
	return e.SubjectID == s.ID && e.SubjectType == s.Type
}

// failingRepo fails every operation
type failingRepo struct {
	inserts int
}

func (r *failingRepo) Insert(context.Context, *domain.ViewEvent) error {
	r.inserts++
	return errStoreDown
}

func (r *failingRepo) HasViewSince(context.Context, domain.Subject, string, time.Time) (bool, error) {
	return false, errStoreDown
}

func (r *failingRepo) CountViews(context.Context, domain.Subject) (int64, error) {
	return 0, errStoreDown
}

func (r *failingRepo) CountUniqueVisitors(context.Context, domain.Subject) (int64, error) {
	return 0, errStoreDown
}

func (r *failingRepo) DailyCounts(context.Context, domain.Subject, time.Time) ([]domain.DailyViews, error) {
	return nil, errStoreDown
}

// insertFailingRepo passes the cooldown lookup and fails on write
type insertFailingRepo struct {
	memoryRepo
}

func (r *insertFailingRepo) Insert(context.Context, *domain.ViewEvent) error {
	return errStoreDown
}

type stubGuard struct {
	claimed  bool
	err      error
	calls    int
	releases int
	lastTTL  time.Duration
}

func (g *stubGuard) Claim(_ context.Context, _ domain.Subject, _ string, ttl time.Duration) (bool, error) {
	g.calls++
	g.lastTTL = ttl
	return g.claimed, g.err
}

func (g *stubGuard) Release(context.Context, domain.Subject, string) error {
	g.releases++
	return nil
}

// flakyRepo fails the first lookups and inserts, then behaves like memoryRepo
type flakyRepo struct {
	memoryRepo
	lookupFailures int
	insertFailures int
}

func (r *flakyRepo) HasViewSince(ctx context.Context, s domain.Subject, visitorID string, since time.Time) (bool, error) {
	if r.lookupFailures > 0 {
		r.lookupFailures--
		return false, errStoreDown
	}
	return r.memoryRepo.HasViewSince(ctx, s, visitorID, since)
}

func (r *flakyRepo) Insert(ctx context.Context, e *domain.ViewEvent) error {
	if r.insertFailures > 0 {
		r.insertFailures--
		return errStoreDown
	}
	return r.memoryRepo.Insert(ctx, e)
}
