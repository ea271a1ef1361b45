package quest

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

type mockChallenges struct {
	quests     []domain.Quest
	questsErr  error
	challenge  *domain.DailyChallenge
	forDateErr error
}

func (m *mockChallenges) ListActiveQuests(context.Context, time.Time) ([]domain.Quest, error) {
	return m.quests, m.questsErr
}

func (m *mockChallenges) ForDate(context.Context, time.Time) (*domain.DailyChallenge, error) {
	return m.challenge, m.forDateErr
}

type mockMetrics struct {
	metrics domain.StudentMetrics
	err     error
}

func (m *mockMetrics) Metrics(context.Context, uuid.UUID) (domain.StudentMetrics, error) {
	return m.metrics, m.err
}

func newService(challenges *mockChallenges, metrics *mockMetrics) *Service {
	return NewService(slog.New(slog.DiscardHandler), challenges, metrics)
}

func TestActiveQuests_ComputesProgress(t *testing.T) {
	quest := domain.Quest{
		ID:           uuid.New(),
		Title:        "Word Rush",
		Metric:       domain.MetricWords,
		TargetValue:  10,
		RewardPoints: 40,
	}
	svc := newService(
		&mockChallenges{quests: []domain.Quest{quest}},
		&mockMetrics{metrics: domain.StudentMetrics{WordsCollected: 4}},
	)

	got, err := svc.ActiveQuests(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ActiveQuests: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("quests = %d, want 1", len(got))
	}
	p := got[0]
	if p.CurrentValue != 4 || p.CompletionPercent != 40 || p.IsCompleted {
		t.Errorf("progress = %+v, want 4/10, 40%%, incomplete", p)
	}
}

func TestActiveQuests_CompletionCapsAtHundred(t *testing.T) {
	quest := domain.Quest{ID: uuid.New(), Metric: domain.MetricWords, TargetValue: 5}
	svc := newService(
		&mockChallenges{quests: []domain.Quest{quest}},
		&mockMetrics{metrics: domain.StudentMetrics{WordsCollected: 12}},
	)

	got, err := svc.ActiveQuests(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ActiveQuests: %v", err)
	}
	if got[0].CompletionPercent != 100 || !got[0].IsCompleted {
		t.Errorf("progress = %+v, want capped 100%% complete", got[0])
	}
}

func TestActiveQuests_ZeroTargetDoesNotDivideByZero(t *testing.T) {
	quest := domain.Quest{ID: uuid.New(), Metric: domain.MetricWords, TargetValue: 0}
	svc := newService(
		&mockChallenges{quests: []domain.Quest{quest}},
		&mockMetrics{metrics: domain.StudentMetrics{WordsCollected: 3}},
	)

	got, err := svc.ActiveQuests(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ActiveQuests: %v", err)
	}
	if got[0].CompletionPercent != 100 {
		t.Errorf("percent = %d, want 100", got[0].CompletionPercent)
	}
}

func TestActiveQuests_FallbackWhenNoneConfigured(t *testing.T) {
	svc := newService(
		&mockChallenges{},
		&mockMetrics{metrics: domain.StudentMetrics{WordsCollected: 5, Streak: 1}},
	)

	got, err := svc.ActiveQuests(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ActiveQuests: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("quests = %d, want 3 built-ins", len(got))
	}
	byTitle := map[string]domain.QuestProgress{}
	for _, p := range got {
		byTitle[p.Title] = p
	}
	if p := byTitle["Word Hunter"]; !p.IsCompleted {
		t.Errorf("Word Hunter = %+v, want complete at 5 words", p)
	}
	if p := byTitle["Consistency Sprint"]; p.IsCompleted || p.CompletionPercent != 33 {
		t.Errorf("Consistency Sprint = %+v, want 33%% at streak 1", p)
	}
}

func TestActiveQuests_FallbackOnUnavailableTable(t *testing.T) {
	svc := newService(
		&mockChallenges{questsErr: domain.ErrUnavailable},
		&mockMetrics{},
	)

	got, err := svc.ActiveQuests(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ActiveQuests: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("quests = %d, want the built-ins", len(got))
	}
}

func TestActiveQuests_MetricsFailurePropagates(t *testing.T) {
	svc := newService(&mockChallenges{}, &mockMetrics{err: errors.New("metrics down")})

	if _, err := svc.ActiveQuests(context.Background(), uuid.New()); err == nil {
		t.Fatal("ActiveQuests should fail when metrics are unavailable")
	}
}

func TestTodayChallenge_Scheduled(t *testing.T) {
	scheduled := &domain.DailyChallenge{ID: uuid.New(), Title: "Collect \"mitigate\""}
	svc := newService(&mockChallenges{challenge: scheduled}, &mockMetrics{})

	got, err := svc.TodayChallenge(context.Background())
	if err != nil {
		t.Fatalf("TodayChallenge: %v", err)
	}
	if got.ID != scheduled.ID {
		t.Errorf("challenge = %+v, want the scheduled one", got)
	}
}

func TestTodayChallenge_FallbackWhenUnscheduled(t *testing.T) {
	svc := newService(&mockChallenges{forDateErr: domain.ErrNotFound}, &mockMetrics{})

	got, err := svc.TodayChallenge(context.Background())
	if err != nil {
		t.Fatalf("TodayChallenge: %v", err)
	}
	if got.Title != "Context Builder" || got.RewardPoints != 20 || got.TargetValue != 1 {
		t.Errorf("challenge = %+v, want the built-in Context Builder", got)
	}
}
