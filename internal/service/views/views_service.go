package views

import (
	"context"
	"time"

	"blog-views/internal/domain"
	"blog-views/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	DefaultCooldown    = 24 * time.Hour
	DefaultHistoryDays = 30
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ViewService records and aggregates subject views. It never returns
// storage errors: failures are logged and reported as "not counted" or as
// zero/empty aggregates.
type ViewService interface {
	RecordView(ctx context.Context, subject domain.Subject, req domain.ViewRequest) bool
	ViewCount(ctx context.Context, subject domain.Subject) int64
	UniqueViewCount(ctx context.Context, subject domain.Subject) int64
	ViewsHistory(ctx context.Context, subject domain.Subject, days int) []domain.DailyViews
	Stats(ctx context.Context, subject domain.Subject, days int) domain.ViewStats
}

type viewService struct {
	repo     domain.ViewRepository
	guard    domain.ViewGuard
	clock    Clock
	log      zerolog.Logger
	cooldown time.Duration
}

type Option func(*viewService)

func WithClock(c Clock) Option {
	return func(s *viewService) { s.clock = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *viewService) { s.log = l }
}

// WithGuard makes the cooldown check atomic across concurrent requests
func WithGuard(g domain.ViewGuard) Option {
	return func(s *viewService) { s.guard = g }
}

// WithCooldown overrides the 24h cooldown. Non-positive values are ignored.
func WithCooldown(d time.Duration) Option {
	return func(s *viewService) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// NewViewService creates a new view service
func NewViewService(repo domain.ViewRepository, opts ...Option) ViewService {
	s := &viewService{
		repo:     repo,
		clock:    systemClock{},
		log:      zerolog.Nop(),
		cooldown: DefaultCooldown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordView counts a view unless the visitor already has one inside the
// cooldown window. Without a guard the lookup and the insert are not atomic,
// so two simultaneous first views may both be counted.
func (s *viewService) RecordView(ctx context.Context, subject domain.Subject, req domain.ViewRequest) bool {
	visitorID := DeriveVisitorID(req.RemoteAddr, req.UserAgent)
	now := s.clock.Now().UTC()
	log := s.log.With().
		Str("subject_id", subject.ID).
		Str("subject_type", string(subject.Type)).
		Str("visitor_id", visitorID).
		Logger()

	claimed := false
	if s.guard != nil {
		ok, err := s.guard.Claim(ctx, subject, visitorID, s.cooldown)
		switch {
		case err != nil:
			// fall back to the store check
			log.Warn().Err(err).Msg("view claim failed")
		case !ok:
			metrics.RecordViewSuppressed(string(subject.Type), metrics.ReasonClaim)
			return false
		default:
			claimed = true
		}
	}

	recent, err := s.repo.HasViewSince(ctx, subject, visitorID, now.Add(-s.cooldown))
	if err != nil {
		metrics.RecordStoreError("has_view_since")
		log.Error().Err(err).Msg("error recording view")
		s.release(ctx, log, subject, visitorID, claimed)
		return false
	}
	if recent {
		metrics.RecordViewSuppressed(string(subject.Type), metrics.ReasonCooldown)
		return false
	}

	event := &domain.ViewEvent{
		SubjectID:   subject.ID,
		SubjectType: subject.Type,
		VisitorID:   visitorID,
		ViewedAt:    now,
		IPAddress:   req.RemoteAddr,
		UserAgent:   req.UserAgent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		metrics.RecordStoreError("insert")
		log.Error().Err(err).Msg("error recording view")
		s.release(ctx, log, subject, visitorID, claimed)
		return false
	}

	metrics.RecordViewCounted(string(subject.Type))
	log.Debug().Msg("view recorded")
	return true
}

// release gives the claim back so the next request retries the store
func (s *viewService) release(ctx context.Context, log zerolog.Logger, subject domain.Subject, visitorID string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.guard.Release(ctx, subject, visitorID); err != nil {
		log.Warn().Err(err).Msg("view claim release failed")
	}
}

func (s *viewService) ViewCount(ctx context.Context, subject domain.Subject) int64 {
	n, err := s.repo.CountViews(ctx, subject)
	if err != nil {
		metrics.RecordStoreError("count_views")
		s.log.Error().Err(err).Str("subject_id", subject.ID).Msg("error getting view count")
		return 0
	}
	return n
}

func (s *viewService) UniqueViewCount(ctx context.Context, subject domain.Subject) int64 {
	n, err := s.repo.CountUniqueVisitors(ctx, subject)
	if err != nil {
		metrics.RecordStoreError("count_unique_visitors")
		s.log.Error().Err(err).Str("subject_id", subject.ID).Msg("error getting unique view count")
		return 0
	}
	return n
}

// ViewsHistory buckets the trailing days of views by UTC date. Days without
// views are omitted. days <= 0 selects DefaultHistoryDays.
func (s *viewService) ViewsHistory(ctx context.Context, subject domain.Subject, days int) []domain.DailyViews {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	since := s.clock.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	history, err := s.repo.DailyCounts(ctx, subject, since)
	if err != nil {
		metrics.RecordStoreError("daily_counts")
		s.log.Error().Err(err).Str("subject_id", subject.ID).Msg("error getting views history")
		return []domain.DailyViews{}
	}
	if history == nil {
		return []domain.DailyViews{}
	}
	return history
}

func (s *viewService) Stats(ctx context.Context, subject domain.Subject, days int) domain.ViewStats {
	return domain.ViewStats{
		TotalViews:  s.ViewCount(ctx, subject),
		UniqueViews: s.UniqueViewCount(ctx, subject),
		History:     s.ViewsHistory(ctx, subject, days),
	}
}
