// Package leaderboard serves the competition standings: the student top
// list with the caller's own rank, and the team leaderboard.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

const topListSize = 10

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	TopByPoints(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	CountRicher(ctx context.Context, points int) (int, error)
	TeamStandings(ctx context.Context) ([]domain.TeamStanding, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service computes leaderboards. Read-only and degradation-friendly: a
// broken standings query renders an empty board, never an error page.
type Service struct {
	profiles profileRepo
	log      *slog.Logger
}

// NewService creates a new leaderboard service.
func NewService(log *slog.Logger, profiles profileRepo) *Service {
	return &Service{
		profiles: profiles,
		log:      log.With("service", "leaderboard"),
	}
}

// Competition returns the top students and, when currentUserID is set, that
// student's own rank (count of strictly richer students plus one).
func (s *Service) Competition(ctx context.Context, currentUserID uuid.UUID) (*domain.Leaderboard, error) {
	entries, err := s.profiles.TopByPoints(ctx, topListSize)
	if err != nil {
		s.log.WarnContext(ctx, "leaderboard query failed", slog.String("error", err.Error()))
		return &domain.Leaderboard{Entries: []domain.LeaderboardEntry{}}, nil
	}

	board := &domain.Leaderboard{Entries: entries}
	if currentUserID == uuid.Nil {
		return board, nil
	}

	profile, err := s.profiles.GetByID(ctx, currentUserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "rank lookup failed",
				slog.String("student_id", currentUserID.String()),
				slog.String("error", err.Error()),
			)
		}
		return board, nil
	}
	board.CurrentUserPoints = profile.Points

	richer, err := s.profiles.CountRicher(ctx, profile.Points)
	if err != nil {
		s.log.WarnContext(ctx, "rank lookup failed",
			slog.String("student_id", currentUserID.String()),
			slog.String("error", err.Error()),
		)
		return board, nil
	}
	position := richer + 1
	board.CurrentUserPosition = &position

	return board, nil
}

// TeamBoard is the team leaderboard plus whether it is the built-in demo
// data.
type TeamBoard struct {
	Standings    []domain.TeamStanding
	FallbackMode bool
}

// Teams returns the team leaderboard. A schema without team tables serves
// the built-in demo standings instead.
func (s *Service) Teams(ctx context.Context) (*TeamBoard, error) {
	standings, err := s.profiles.TeamStandings(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return &TeamBoard{Standings: fallbackTeams(), FallbackMode: true}, nil
		}
		return nil, fmt.Errorf("team standings: %w", err)
	}
	return &TeamBoard{Standings: standings}, nil
}

// fallbackTeams is the demo team board shown before team tables exist.
func fallbackTeams() []domain.TeamStanding {
	builtin := []struct {
		name, color              string
		points, members, average int
	}{
		{"Blue Rockets", "#2563eb", 1260, 6, 210},
		{"Orange Sparks", "#ea580c", 1010, 5, 202},
		{"Green Titans", "#059669", 940, 5, 188},
	}

	standings := make([]domain.TeamStanding, 0, len(builtin))
	for _, t := range builtin {
		standings = append(standings, domain.TeamStanding{
			ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("team:"+t.name)),
			Name:      t.name,
			ColorHex:  t.color,
			Points:    t.points,
			Members:   t.members,
			AvgPoints: t.average,
		})
	}
	return standings
}
