// Package badge implements metric-threshold achievements: evaluating badge
// definitions against a student's metrics, persisting monotonic unlock
// state, and paying one-time unlock rewards.
package badge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type badgeRepo interface {
	ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error)
	ListProgress(ctx context.Context, studentID uuid.UUID) ([]domain.BadgeProgress, error)
	UpsertProgress(ctx context.Context, rows []domain.BadgeProgress) error
}

type rewardAwarder interface {
	Award(ctx context.Context, studentID uuid.UUID, base int) (*points.AwardResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service evaluates and persists badge state.
type Service struct {
	badges badgeRepo
	awards rewardAwarder
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a new badge service.
func NewService(log *slog.Logger, badges badgeRepo, awards rewardAwarder) *Service {
	return &Service{
		badges: badges,
		awards: awards,
		log:    log.With("service", "badge"),
		now:    time.Now,
	}
}

// SyncResult is the full badge state after one evaluation pass.
type SyncResult struct {
	Badges        []domain.StudentBadge
	Unlocked      []domain.StudentBadge // newly unlocked in this pass
	AwardedPoints int
	FallbackMode  bool // built-in set, nothing persisted
}

// Sync re-evaluates every badge against the student's current metrics.
// Unlocks are monotonic and each badge pays its reward exactly once. All
// rewards earned in one pass are batched into a single award, so boosts
// and level-up notifications apply to them like any other points.
//
// With no usable definitions the evaluator runs the built-in set purely in
// memory: badges still render, but nothing persists and no rewards pay out.
func (s *Service) Sync(ctx context.Context, studentID uuid.UUID, metrics domain.StudentMetrics) (*SyncResult, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}

	defs, err := s.badges.ListDefinitions(ctx)
	if err != nil || len(defs) == 0 {
		if err != nil && !errors.Is(err, domain.ErrUnavailable) {
			s.log.WarnContext(ctx, "badge definitions lookup failed", slog.String("error", err.Error()))
		}
		return s.evaluateBuiltin(metrics), nil
	}

	prior := make(map[uuid.UUID]domain.BadgeProgress)
	progress, err := s.badges.ListProgress(ctx, studentID)
	if err != nil {
		s.log.WarnContext(ctx, "badge progress lookup failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
	}
	for _, p := range progress {
		prior[p.BadgeID] = p
	}

	now := s.now()
	result := &SyncResult{Badges: make([]domain.StudentBadge, 0, len(defs))}
	rows := make([]domain.BadgeProgress, 0, len(defs))

	for _, def := range defs {
		prev := prior[def.ID]
		value := metrics.Value(def.Metric)
		unlocked := prev.Unlocked || value >= def.Target

		row := domain.BadgeProgress{
			BadgeID:       def.ID,
			StudentID:     studentID,
			ProgressValue: value,
			Unlocked:      unlocked,
			UnlockedAt:    prev.UnlockedAt,
			AwardedPoints: prev.AwardedPoints,
		}
		if unlocked && !prev.Unlocked {
			row.UnlockedAt = &now
			row.AwardedPoints = def.RewardPoints
			result.AwardedPoints += def.RewardPoints
			result.Unlocked = append(result.Unlocked, presentBadge(def, row))
		}
		rows = append(rows, row)
		result.Badges = append(result.Badges, presentBadge(def, row))
	}

	if err := s.badges.UpsertProgress(ctx, rows); err != nil {
		return nil, fmt.Errorf("upsert badge progress: %w", err)
	}

	if result.AwardedPoints > 0 {
		if _, err := s.awards.Award(ctx, studentID, result.AwardedPoints); err != nil {
			return nil, fmt.Errorf("award badge rewards: %w", err)
		}
		s.log.InfoContext(ctx, "badges unlocked",
			slog.String("student_id", studentID.String()),
			slog.Int("count", len(result.Unlocked)),
			slog.Int("reward", result.AwardedPoints),
		)
	}

	return result, nil
}

// evaluateBuiltin computes badge state from the built-in set without
// touching storage.
func (s *Service) evaluateBuiltin(metrics domain.StudentMetrics) *SyncResult {
	defs := builtinBadges()
	result := &SyncResult{
		Badges:       make([]domain.StudentBadge, 0, len(defs)),
		FallbackMode: true,
	}
	for _, def := range defs {
		value := metrics.Value(def.Metric)
		result.Badges = append(result.Badges, domain.StudentBadge{
			ID:           def.ID,
			Slug:         def.Slug,
			Name:         def.Name,
			Description:  def.Description,
			Icon:         def.Icon,
			Color:        def.Color,
			Target:       def.Target,
			Progress:     value,
			Unlocked:     value >= def.Target,
			RewardPoints: def.RewardPoints,
		})
	}
	return result
}

func presentBadge(def domain.BadgeDefinition, p domain.BadgeProgress) domain.StudentBadge {
	return domain.StudentBadge{
		ID:           def.ID,
		Slug:         def.Slug,
		Name:         def.Name,
		Description:  def.Description,
		Icon:         def.Icon,
		Color:        def.Color,
		Target:       def.Target,
		Progress:     p.ProgressValue,
		Unlocked:     p.Unlocked,
		RewardPoints: def.RewardPoints,
	}
}
