// Package review implements spaced repetition: due-item queues, a binary
// easy/hard scheduler, review streaks, and teacher-facing analytics.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/badge"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

const defaultDueLimit = 20

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type reviewRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewItem, error)
	ListDue(ctx context.Context, studentID uuid.UUID, now time.Time, limit int) ([]domain.ReviewItem, error)
	UpdateSchedule(ctx context.Context, item *domain.ReviewItem) error
	RecentReviewDates(ctx context.Context, studentID uuid.UUID, limit int) ([]time.Time, error)
	Analytics(ctx context.Context, now, startOfDay time.Time) (domain.ReviewAnalytics, error)
}

type profileRepo interface {
	UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error
}

type awarder interface {
	Award(ctx context.Context, studentID uuid.UUID, base int) (*points.AwardResult, error)
}

type metricsSource interface {
	Metrics(ctx context.Context, studentID uuid.UUID) (domain.StudentMetrics, error)
}

type badgeSyncer interface {
	Sync(ctx context.Context, studentID uuid.UUID, metrics domain.StudentMetrics) (*badge.SyncResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service runs the review loop.
type Service struct {
	reviews  reviewRepo
	profiles profileRepo
	awards   awarder
	metrics  metricsSource
	badges   badgeSyncer
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new review service.
func NewService(log *slog.Logger, reviews reviewRepo, profiles profileRepo, awards awarder, metrics metricsSource, badges badgeSyncer) *Service {
	return &Service{
		reviews:  reviews,
		profiles: profiles,
		awards:   awards,
		metrics:  metrics,
		badges:   badges,
		log:      log.With("service", "review"),
		now:      time.Now,
	}
}

// DueItems returns the student's due queue, earliest first. limit <= 0 uses
// the default page size.
func (s *Service) DueItems(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.ReviewItem, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}
	if limit <= 0 {
		limit = defaultDueLimit
	}

	items, err := s.reviews.ListDue(ctx, studentID, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}
	return items, nil
}

// SubmitResult is everything one completed review produced.
type SubmitResult struct {
	Item           *domain.ReviewItem
	Award          *points.AwardResult
	Streak         int
	UnlockedBadges []domain.StudentBadge
}

// SubmitRating applies a recall grade to one of the student's items. The
// schedule update is the transaction; points, the streak resync, and the
// badge pass are enrichments that log and continue on failure, so a
// gamification outage never blocks reviewing.
func (s *Service) SubmitRating(ctx context.Context, studentID, itemID uuid.UUID, rating domain.ReviewRating) (*SubmitResult, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}
	if !rating.IsValid() {
		return nil, domain.NewValidationError("rating", "must be easy or hard")
	}

	item, err := s.reviews.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get review item: %w", err)
	}
	if item.StudentID != studentID {
		return nil, fmt.Errorf("get review item: %w", domain.ErrNotFound)
	}

	now := s.now()
	updated := nextSchedule(*item, rating, now)
	if err := s.reviews.UpdateSchedule(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	result := &SubmitResult{Item: &updated}

	award, err := s.awards.Award(ctx, studentID, rating.BasePoints())
	if err != nil {
		s.log.WarnContext(ctx, "review award failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		result.Award = award
	}

	result.Streak = s.resyncStreak(ctx, studentID, now)
	result.UnlockedBadges = s.syncBadges(ctx, studentID)

	s.log.InfoContext(ctx, "review submitted",
		slog.String("student_id", studentID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("rating", string(rating)),
		slog.Int("interval_days", updated.IntervalDays),
		slog.String("status", string(updated.Status)),
	)

	return result, nil
}

// Analytics returns the aggregate review dashboard. An absent review table
// degrades to zeros.
func (s *Service) Analytics(ctx context.Context) (domain.ReviewAnalytics, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	analytics, err := s.reviews.Analytics(ctx, now, startOfDay)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return domain.ReviewAnalytics{}, nil
		}
		return domain.ReviewAnalytics{}, fmt.Errorf("review analytics: %w", err)
	}
	return analytics, nil
}

// resyncStreak recomputes the consecutive-day streak from recent review
// timestamps and writes it to the profile.
func (s *Service) resyncStreak(ctx context.Context, studentID uuid.UUID, now time.Time) int {
	dates, err := s.reviews.RecentReviewDates(ctx, studentID, streakWindow)
	if err != nil {
		s.log.WarnContext(ctx, "streak recompute failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
		return 0
	}

	streak := consecutiveStreak(dates, now)
	if err := s.profiles.UpdateStreak(ctx, studentID, streak); err != nil {
		s.log.WarnContext(ctx, "streak update failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
	}
	return streak
}

func (s *Service) syncBadges(ctx context.Context, studentID uuid.UUID) []domain.StudentBadge {
	metrics, err := s.metrics.Metrics(ctx, studentID)
	if err != nil {
		s.log.WarnContext(ctx, "metrics fetch failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	sync, err := s.badges.Sync(ctx, studentID, metrics)
	if err != nil {
		s.log.WarnContext(ctx, "badge sync failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return sync.Unlocked
}
