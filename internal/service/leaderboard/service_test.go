package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

type mockProfiles struct {
	top       []domain.LeaderboardEntry
	topErr    error
	profile   *domain.Profile
	getErr    error
	richer    int
	richerErr error
	teams     []domain.TeamStanding
	teamsErr  error
}

func (m *mockProfiles) GetByID(context.Context, uuid.UUID) (*domain.Profile, error) {
	return m.profile, m.getErr
}

func (m *mockProfiles) TopByPoints(context.Context, int) ([]domain.LeaderboardEntry, error) {
	return m.top, m.topErr
}

func (m *mockProfiles) CountRicher(context.Context, int) (int, error) {
	return m.richer, m.richerErr
}

func (m *mockProfiles) TeamStandings(context.Context) ([]domain.TeamStanding, error) {
	return m.teams, m.teamsErr
}

func newService(profiles *mockProfiles) *Service {
	return NewService(slog.New(slog.DiscardHandler), profiles)
}

func TestCompetition(t *testing.T) {
	profiles := &mockProfiles{
		top: []domain.LeaderboardEntry{
			{Username: "ana", Points: 900},
			{Username: "leo", Points: 740},
		},
		profile: &domain.Profile{Points: 310},
		richer:  4,
	}
	svc := newService(profiles)

	got, err := svc.Competition(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}

	if len(got.Entries) != 2 {
		t.Errorf("entries = %d, want 2", len(got.Entries))
	}
	if got.CurrentUserPosition == nil || *got.CurrentUserPosition != 5 {
		t.Errorf("position = %v, want 5 (4 richer + 1)", got.CurrentUserPosition)
	}
	if got.CurrentUserPoints != 310 {
		t.Errorf("points = %d, want 310", got.CurrentUserPoints)
	}
}

func TestCompetition_QueryFailureDegradesToEmpty(t *testing.T) {
	svc := newService(&mockProfiles{topErr: errors.New("query failed")})

	got, err := svc.Competition(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Competition should degrade: %v", err)
	}
	if len(got.Entries) != 0 || got.CurrentUserPosition != nil {
		t.Errorf("board = %+v, want empty", got)
	}
}

func TestCompetition_AnonymousSkipsRank(t *testing.T) {
	profiles := &mockProfiles{top: []domain.LeaderboardEntry{{Username: "ana"}}}
	svc := newService(profiles)

	got, err := svc.Competition(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}
	if got.CurrentUserPosition != nil {
		t.Errorf("position = %v, want nil without a caller", got.CurrentUserPosition)
	}
}

func TestCompetition_RankFailureKeepsBoard(t *testing.T) {
	profiles := &mockProfiles{
		top:     []domain.LeaderboardEntry{{Username: "ana"}},
		profile: &domain.Profile{Points: 100},
		richerErr: errors.New("count failed"),
	}
	svc := newService(profiles)

	got, err := svc.Competition(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}
	if len(got.Entries) != 1 || got.CurrentUserPosition != nil {
		t.Errorf("board = %+v, want entries without a rank", got)
	}
}

func TestTeams(t *testing.T) {
	profiles := &mockProfiles{
		teams: []domain.TeamStanding{{Name: "Alpha", Points: 500, Members: 2, AvgPoints: 250}},
	}
	svc := newService(profiles)

	got, err := svc.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if got.FallbackMode || len(got.Standings) != 1 || got.Standings[0].Name != "Alpha" {
		t.Errorf("board = %+v", got)
	}
}

func TestTeams_FallbackWithoutTeamTables(t *testing.T) {
	svc := newService(&mockProfiles{teamsErr: domain.ErrUnavailable})

	got, err := svc.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams should degrade: %v", err)
	}
	if !got.FallbackMode || len(got.Standings) != 3 {
		t.Fatalf("board = %+v, want 3 demo teams in fallback mode", got)
	}
	if got.Standings[0].Name != "Blue Rockets" || got.Standings[0].AvgPoints != 210 {
		t.Errorf("first team = %+v, want Blue Rockets at 210 avg", got.Standings[0])
	}
}

func TestTeams_OtherErrorPropagates(t *testing.T) {
	svc := newService(&mockProfiles{teamsErr: errors.New("connection reset")})

	if _, err := svc.Teams(context.Background()); err == nil {
		t.Fatal("Teams should propagate non-schema errors")
	}
}
