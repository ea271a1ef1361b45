// Package collect implements entry collection: storing new words and
// expressions, pricing them by uniqueness, scoring example sentences, and
// triggering the daily-challenge hook.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

const defaultScanLimit = 1500

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	ExistsNormalized(ctx context.Context, normalized string, excludeStudent uuid.UUID) (bool, error)
	RecentTexts(ctx context.Context, excludeStudent uuid.UUID, limit int) (texts []string, normalized bool, err error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, f domain.EntryFilter) ([]domain.Entry, error)
}

type reviewRepo interface {
	EnsureItem(ctx context.Context, item *domain.ReviewItem) error
}

type challengeRepo interface {
	ForDate(ctx context.Context, date time.Time) (*domain.DailyChallenge, error)
	InsertClaim(ctx context.Context, c *domain.ChallengeClaim) error
	DeleteClaim(ctx context.Context, id uuid.UUID) error
	UpdateClaimPoints(ctx context.Context, id uuid.UUID, points int) error
}

type awarder interface {
	Award(ctx context.Context, studentID uuid.UUID, base int) (*points.AwardResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service handles the full collection flow for words and expressions.
type Service struct {
	entries    entryRepo
	reviews    reviewRepo
	challenges challengeRepo
	awards     awarder
	log        *slog.Logger
	scanLimit  int
	now        func() time.Time
}

// NewService creates a new collect service. scanLimit bounds the similarity
// scan window; zero or negative uses the default.
func NewService(log *slog.Logger, entries entryRepo, reviews reviewRepo, challenges challengeRepo, awards awarder, scanLimit int) *Service {
	if scanLimit <= 0 {
		scanLimit = defaultScanLimit
	}
	return &Service{
		entries:    entries,
		reviews:    reviews,
		challenges: challenges,
		awards:     awards,
		log:        log.With("service", "collect"),
		scanLimit:  scanLimit,
		now:        time.Now,
	}
}

// Collect stores a new entry for the student and pays out everything it
// earns. The entry itself always persists; pricing and bonuses are computed
// after the insert so a degraded gamification path never loses a word.
func (s *Service) Collect(ctx context.Context, studentID uuid.UUID, in CollectInput) (*CollectResult, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	e := &domain.Entry{
		ID:             uuid.New(),
		StudentID:      studentID,
		MaterialID:     in.MaterialID,
		Type:           in.Type,
		Text:           in.Text,
		TextNormalized: domain.NormalizeForMatch(in.Text),
		Definition:     in.Definition,
		Example:        in.Example,
		Category:       in.Category,
		ImageURL:       in.ImageURL,
		CreatedAt:      s.now(),
	}

	stored, err := s.entries.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.ensureReviewItem(ctx, stored)

	result := &CollectResult{Entry: stored}

	result.Uniqueness = s.evaluateUniqueness(ctx, studentID, stored.TextNormalized, stored.Type.BasePoints())
	if result.Uniqueness.Points > 0 {
		award, err := s.awards.Award(ctx, studentID, result.Uniqueness.Points)
		if err != nil {
			return nil, fmt.Errorf("award collection points: %w", err)
		}
		result.Award = award
	}

	if stored.Example != "" {
		result.Context = ScoreContextUsage(stored.Text, stored.Example)
		if result.Context.BonusPoints > 0 {
			award, err := s.awards.Award(ctx, studentID, result.Context.BonusPoints)
			if err != nil {
				return nil, fmt.Errorf("award context bonus: %w", err)
			}
			result.ContextAward = award
		}
	}

	if stored.Type == domain.EntryTypeVocabulary {
		hook, err := s.claimDailyHook(ctx, studentID, stored)
		if err != nil {
			return nil, err
		}
		result.DailyHook = hook
	}

	s.log.InfoContext(ctx, "entry collected",
		slog.String("student_id", studentID.String()),
		slog.String("entry_id", stored.ID.String()),
		slog.String("type", string(stored.Type)),
		slog.String("uniqueness", string(result.Uniqueness.Tier)),
		slog.Int("points", result.TotalAwarded()),
	)

	return result, nil
}

// ListEntries returns the student's collection, newest first.
func (s *Service) ListEntries(ctx context.Context, studentID uuid.UUID, f domain.EntryFilter) ([]domain.Entry, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}

	entries, err := s.entries.ListByStudent(ctx, studentID, f)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ensureReviewItem seeds the spaced-repetition card for a new entry. Review
// is an enrichment on top of collection, so a failure here is logged and
// swallowed.
func (s *Service) ensureReviewItem(ctx context.Context, e *domain.Entry) {
	var hint *string
	if e.Example != "" {
		hint = &e.Example
	}

	item := &domain.ReviewItem{
		ID:           uuid.New(),
		StudentID:    e.StudentID,
		EntryID:      e.ID,
		EntryType:    e.Type,
		Prompt:       e.Text,
		Answer:       e.Definition,
		ContextHint:  hint,
		Status:       domain.ReviewStatusLearning,
		DueAt:        s.now(),
		IntervalDays: 0,
		EaseFactor:   2.5,
		Repetitions:  0,
		CreatedAt:    s.now(),
	}
	if err := s.reviews.EnsureItem(ctx, item); err != nil {
		s.log.WarnContext(ctx, "review item seed failed",
			slog.String("entry_id", e.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
