// Package student aggregates per-student state: the profile, derived
// metrics, and the level standing computed from points.
package student

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

type entryRepo interface {
	CountByType(ctx context.Context, studentID uuid.UUID, t domain.EntryType) (int, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service reads student state. It never mutates anything.
type Service struct {
	profiles profileRepo
	entries  entryRepo
	log      *slog.Logger
}

// NewService creates a new student service.
func NewService(log *slog.Logger, profiles profileRepo, entries entryRepo) *Service {
	return &Service{
		profiles: profiles,
		entries:  entries,
		log:      log.With("service", "student"),
	}
}

// Metrics assembles the snapshot the badge and quest evaluators run against.
// The three reads are independent and fan out concurrently.
func (s *Service) Metrics(ctx context.Context, studentID uuid.UUID) (domain.StudentMetrics, error) {
	if studentID == uuid.Nil {
		return domain.StudentMetrics{}, domain.NewValidationError("student_id", "required")
	}

	var metrics domain.StudentMetrics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.profiles.GetByID(gctx, studentID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		metrics.Points = profile.Points
		metrics.Streak = profile.Streak
		return nil
	})
	g.Go(func() error {
		n, err := s.entries.CountByType(gctx, studentID, domain.EntryTypeVocabulary)
		if err != nil {
			return fmt.Errorf("count words: %w", err)
		}
		metrics.WordsCollected = n
		return nil
	})
	g.Go(func() error {
		n, err := s.entries.CountByType(gctx, studentID, domain.EntryTypeExpression)
		if err != nil {
			return fmt.Errorf("count expressions: %w", err)
		}
		metrics.ExpressionsCollected = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.StudentMetrics{}, err
	}
	return metrics, nil
}

// Overview is the student-facing dashboard head: profile, metrics, and the
// level standing.
type Overview struct {
	Profile domain.Profile
	Metrics domain.StudentMetrics
	Level   points.LevelInfo
}

// Overview returns the student's profile together with derived metrics and
// level standing.
func (s *Service) Overview(ctx context.Context, studentID uuid.UUID) (*Overview, error) {
	profile, err := s.profiles.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	metrics, err := s.Metrics(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Profile: *profile,
		Metrics: metrics,
		Level:   points.GetLevelInfo(profile.Points),
	}, nil
}
