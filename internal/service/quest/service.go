// Package quest computes weekly-quest progress and resolves the daily
// challenge, falling back to built-in targets when none are configured.
package quest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type challengeRepo interface {
	ListActiveQuests(ctx context.Context, now time.Time) ([]domain.Quest, error)
	ForDate(ctx context.Context, date time.Time) (*domain.DailyChallenge, error)
}

type metricsSource interface {
	Metrics(ctx context.Context, studentID uuid.UUID) (domain.StudentMetrics, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service resolves quests and daily challenges for students.
type Service struct {
	challenges challengeRepo
	metrics    metricsSource
	log        *slog.Logger
	now        func() time.Time
}

// NewService creates a new quest service.
func NewService(log *slog.Logger, challenges challengeRepo, metrics metricsSource) *Service {
	return &Service{
		challenges: challenges,
		metrics:    metrics,
		log:        log.With("service", "quest"),
		now:        time.Now,
	}
}

// ActiveQuests returns the student's progress against every quest whose
// window contains now. No configured quests, or an unavailable quest table,
// fall back to the built-in set. Progress is recomputed on every call and
// never persisted.
func (s *Service) ActiveQuests(ctx context.Context, studentID uuid.UUID) ([]domain.QuestProgress, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}

	quests, err := s.challenges.ListActiveQuests(ctx, s.now())
	if err != nil {
		if !errors.Is(err, domain.ErrUnavailable) {
			s.log.WarnContext(ctx, "quest lookup failed", slog.String("error", err.Error()))
		}
		quests = nil
	}
	if len(quests) == 0 {
		quests = fallbackQuests()
	}

	metrics, err := s.metrics.Metrics(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("student metrics: %w", err)
	}

	progress := make([]domain.QuestProgress, 0, len(quests))
	for _, q := range quests {
		progress = append(progress, questProgress(q, metrics))
	}
	return progress, nil
}

// TodayChallenge returns the challenge published for today (UTC), or the
// built-in one when none is scheduled.
func (s *Service) TodayChallenge(ctx context.Context) (*domain.DailyChallenge, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	challenge, err := s.challenges.ForDate(ctx, today)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnavailable) {
			fallback := fallbackDailyChallenge(today)
			return &fallback, nil
		}
		return nil, fmt.Errorf("daily challenge: %w", err)
	}
	return challenge, nil
}

// questProgress prices one quest against the metrics snapshot.
func questProgress(q domain.Quest, metrics domain.StudentMetrics) domain.QuestProgress {
	current := metrics.Value(q.Metric)
	target := q.TargetValue
	if target < 1 {
		target = 1
	}

	percent := int(math.Round(100 * float64(current) / float64(target)))
	if percent > 100 {
		percent = 100
	}

	return domain.QuestProgress{
		ID:                q.ID,
		Title:             q.Title,
		Description:       q.Description,
		RewardPoints:      q.RewardPoints,
		TargetValue:       q.TargetValue,
		CurrentValue:      current,
		CompletionPercent: percent,
		IsCompleted:       current >= q.TargetValue,
	}
}
