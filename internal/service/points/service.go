// Package points implements point awarding, the level curve, and boosts.
package points

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileRepo interface {
	IncrementPoints(ctx context.Context, id uuid.UUID, delta int) (prev, next int, err error)
}

type boostRepo interface {
	ActiveAt(ctx context.Context, now time.Time) (*domain.Boost, error)
	Create(ctx context.Context, b *domain.Boost) error
}

type streamRepo interface {
	CreatePost(ctx context.Context, p *domain.StreamPost) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service is the single funnel for point mutations. Every award flows through
// Award so boosts, the zero floor, and level-up notifications apply uniformly.
type Service struct {
	profiles profileRepo
	boosts   boostRepo
	stream   streamRepo
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new points service.
func NewService(log *slog.Logger, profiles profileRepo, boosts boostRepo, stream streamRepo) *Service {
	return &Service{
		profiles: profiles,
		boosts:   boosts,
		stream:   stream,
		log:      log.With("service", "points"),
		now:      time.Now,
	}
}

// AwardResult reports what one award actually did.
type AwardResult struct {
	BasePoints    int
	AwardedPoints int
	PreviousTotal int
	NewTotal      int
	Boost         *domain.Boost
	PreviousLevel LevelInfo
	NewLevel      LevelInfo
	LeveledUp     bool
}

// Award applies the active boost to base, atomically adds the result to the
// student's total, and publishes a level-up post when the new total crosses a
// tier boundary. The stream post is best-effort: a failure is logged, never
// returned.
func (s *Service) Award(ctx context.Context, studentID uuid.UUID, base int) (*AwardResult, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}

	boost := s.activeBoost(ctx)
	awarded := ApplyBoost(base, boost)

	prev, next, err := s.profiles.IncrementPoints(ctx, studentID, awarded)
	if err != nil {
		return nil, fmt.Errorf("increment points: %w", err)
	}

	result := &AwardResult{
		BasePoints:    base,
		AwardedPoints: awarded,
		PreviousTotal: prev,
		NewTotal:      next,
		Boost:         boost,
		PreviousLevel: GetLevelInfo(prev),
		NewLevel:      GetLevelInfo(next),
	}
	result.LeveledUp = result.NewLevel.Level > result.PreviousLevel.Level

	if result.LeveledUp {
		post := &domain.StreamPost{
			ID:        uuid.New(),
			AuthorID:  studentID,
			Body:      fmt.Sprintf("Reached Level %d (%s).", result.NewLevel.Level, result.NewLevel.Title),
			System:    true,
			CreatedAt: s.now(),
		}
		if err := s.stream.CreatePost(ctx, post); err != nil {
			s.log.WarnContext(ctx, "level-up post failed",
				slog.String("student_id", studentID.String()),
				slog.Int("new_level", result.NewLevel.Level),
				slog.String("error", err.Error()),
			)
		}
	}

	s.log.InfoContext(ctx, "points awarded",
		slog.String("student_id", studentID.String()),
		slog.Int("base", base),
		slog.Int("awarded", awarded),
		slog.Int("total", next),
	)

	return result, nil
}

// activeBoost looks up the boost in effect right now. No boost, or a boost
// store that is unavailable, both mean "award unmodified".
func (s *Service) activeBoost(ctx context.Context) *domain.Boost {
	boost, err := s.boosts.ActiveAt(ctx, s.now())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUnavailable) {
			s.log.WarnContext(ctx, "boost lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}
	return boost
}
