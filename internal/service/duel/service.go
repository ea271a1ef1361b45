// Package duel implements 1v1 vocabulary duels: round generation, the
// waiting/active/finished lifecycle, answer scoring, and finalization with
// winner and participation bonuses.
package duel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

const (
	correctAnswerPoints = 12
	wrongAnswerPoints   = 3
	winnerBonusPoints   = 25
	participationPoints = 10

	defaultListLimit = 10
	minParticipants  = 2
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type duelRepo interface {
	CreateDuel(ctx context.Context, d *domain.Duel) error
	InsertRounds(ctx context.Context, rounds []domain.DuelRound) error
	GetDuel(ctx context.Context, id uuid.UUID) (*domain.Duel, error)
	ListRounds(ctx context.Context, duelID uuid.UUID) ([]domain.DuelRound, error)
	AddParticipant(ctx context.Context, duelID, studentID uuid.UUID, joinedAt time.Time) error
	ListParticipants(ctx context.Context, duelID uuid.UUID) ([]domain.DuelParticipant, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.DuelStatus, startedAt *time.Time) (bool, error)
	Finish(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, finishedAt time.Time) (bool, error)
	InsertAnswer(ctx context.Context, a *domain.DuelAnswer) error
	ListAnswers(ctx context.Context, duelID uuid.UUID) ([]domain.DuelAnswer, error)
	AddScore(ctx context.Context, duelID, studentID uuid.UUID, points, correctDelta int) error
	ListJoinable(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.Duel, error)
	ListHistory(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.DuelHistoryItem, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type awarder interface {
	Award(ctx context.Context, studentID uuid.UUID, base int) (*points.AwardResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service runs the duel engine. State is pull-based: clients poll GetState,
// the engine never pushes.
type Service struct {
	duels  duelRepo
	tx     txManager
	awards awarder
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a new duel service.
func NewService(log *slog.Logger, duels duelRepo, tx txManager, awards awarder) *Service {
	return &Service{
		duels:  duels,
		tx:     tx,
		awards: awards,
		log:    log.With("service", "duel"),
		now:    time.Now,
	}
}

// Create opens a new waiting duel with freshly drawn rounds. The duel row,
// the creator's participant row, and the rounds commit atomically.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID) (*domain.DuelState, error) {
	if creatorID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}

	now := s.now()
	d := &domain.Duel{
		ID:        uuid.New(),
		CreatedBy: creatorID,
		Status:    domain.DuelWaiting,
		CreatedAt: now,
	}
	rounds := pickRounds(d.ID)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.duels.CreateDuel(ctx, d); err != nil {
			return fmt.Errorf("create duel: %w", err)
		}
		if err := s.duels.AddParticipant(ctx, d.ID, creatorID, now); err != nil {
			return fmt.Errorf("add creator: %w", err)
		}
		if err := s.duels.InsertRounds(ctx, rounds); err != nil {
			return fmt.Errorf("insert rounds: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "duel created",
		slog.String("duel_id", d.ID.String()),
		slog.String("created_by", creatorID.String()),
	)

	return &domain.DuelState{
		Duel:         *d,
		Participants: []domain.DuelParticipant{{DuelID: d.ID, StudentID: creatorID, JoinedAt: now}},
		Rounds:       rounds,
	}, nil
}

// Join adds a student to a waiting duel.
func (s *Service) Join(ctx context.Context, duelID, studentID uuid.UUID) error {
	if studentID == uuid.Nil {
		return domain.NewValidationError("student_id", "required")
	}

	d, err := s.duels.GetDuel(ctx, duelID)
	if err != nil {
		return fmt.Errorf("get duel: %w", err)
	}
	if d.Status != domain.DuelWaiting {
		return domain.NewStateError("duel", string(d.Status), "can only join a waiting duel")
	}

	if err := s.duels.AddParticipant(ctx, duelID, studentID, s.now()); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.NewStateError("duel", string(d.Status), "already joined")
		}
		return fmt.Errorf("add participant: %w", err)
	}

	s.log.InfoContext(ctx, "duel joined",
		slog.String("duel_id", duelID.String()),
		slog.String("student_id", studentID.String()),
	)
	return nil
}

// Start flips a waiting duel to active. Creator-only, and at least two
// participants must have joined. The flip is a compare-and-swap, so two
// concurrent starts cannot both succeed.
func (s *Service) Start(ctx context.Context, duelID, studentID uuid.UUID) error {
	d, err := s.duels.GetDuel(ctx, duelID)
	if err != nil {
		return fmt.Errorf("get duel: %w", err)
	}
	if d.CreatedBy != studentID {
		return fmt.Errorf("start duel: %w", domain.ErrForbidden)
	}
	if d.Status != domain.DuelWaiting {
		return domain.NewStateError("duel", string(d.Status), "can only start a waiting duel")
	}

	participants, err := s.duels.ListParticipants(ctx, duelID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	if len(participants) < minParticipants {
		return domain.NewStateError("duel", string(d.Status), "needs at least two participants")
	}

	now := s.now()
	ok, err := s.duels.UpdateStatus(ctx, duelID, domain.DuelWaiting, domain.DuelActive, &now)
	if err != nil {
		return fmt.Errorf("start duel: %w", err)
	}
	if !ok {
		return domain.NewStateError("duel", "changed", "duel is no longer waiting")
	}

	s.log.InfoContext(ctx, "duel started", slog.String("duel_id", duelID.String()))
	return nil
}

// AnswerInput is one submitted round answer.
type AnswerInput struct {
	RoundID        uuid.UUID
	SelectedAnswer string
	ResponseTimeMs int
}

// AnswerResult reports how one answer scored.
type AnswerResult struct {
	Answer *domain.DuelAnswer
	Award  *points.AwardResult
}

// SubmitAnswer scores one answer in an active duel: 12 duel points for a
// correct pick, 3 for a wrong one. The same points also feed the student's
// global total through the award funnel. Each (round, student) pair answers
// at most once.
func (s *Service) SubmitAnswer(ctx context.Context, duelID, studentID uuid.UUID, in AnswerInput) (*AnswerResult, error) {
	if studentID == uuid.Nil {
		return nil, domain.NewValidationError("student_id", "required")
	}
	if in.SelectedAnswer == "" {
		return nil, domain.NewValidationError("selected_answer", "required")
	}

	d, err := s.duels.GetDuel(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("get duel: %w", err)
	}
	if d.Status != domain.DuelActive {
		return nil, domain.NewStateError("duel", string(d.Status), "answers are only accepted while active")
	}

	rounds, err := s.duels.ListRounds(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	var round *domain.DuelRound
	for i := range rounds {
		if rounds[i].ID == in.RoundID {
			round = &rounds[i]
			break
		}
	}
	if round == nil {
		return nil, fmt.Errorf("round %s: %w", in.RoundID, domain.ErrNotFound)
	}

	isCorrect := in.SelectedAnswer == round.CorrectAnswer
	earned := wrongAnswerPoints
	correctDelta := 0
	if isCorrect {
		earned = correctAnswerPoints
		correctDelta = 1
	}

	answer := &domain.DuelAnswer{
		ID:             uuid.New(),
		DuelID:         duelID,
		RoundID:        round.ID,
		StudentID:      studentID,
		SelectedAnswer: in.SelectedAnswer,
		IsCorrect:      isCorrect,
		ResponseTimeMs: in.ResponseTimeMs,
		PointsEarned:   earned,
		CreatedAt:      s.now(),
	}
	if err := s.duels.InsertAnswer(ctx, answer); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewStateError("duel_round", "answered", "round already answered")
		}
		return nil, fmt.Errorf("insert answer: %w", err)
	}

	if err := s.duels.AddScore(ctx, duelID, studentID, earned, correctDelta); err != nil {
		return nil, fmt.Errorf("add score: %w", err)
	}

	result := &AnswerResult{Answer: answer}
	award, err := s.awards.Award(ctx, studentID, earned)
	if err != nil {
		s.log.WarnContext(ctx, "duel answer award failed",
			slog.String("duel_id", duelID.String()),
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		result.Award = award
	}

	return result, nil
}

// FinalizeIfReady finishes an active duel once every participant has
// answered every round. Only the creator's poll finalizes; anything not
// ready is a silent no-op so clients can call it on every state refresh.
// The status flip is a compare-and-swap: bonuses pay out exactly once.
func (s *Service) FinalizeIfReady(ctx context.Context, duelID, requesterID uuid.UUID) (bool, error) {
	state, err := s.GetState(ctx, duelID)
	if err != nil {
		return false, err
	}

	if state.Duel.CreatedBy != requesterID ||
		state.Duel.Status != domain.DuelActive ||
		len(state.Rounds) == 0 ||
		len(state.Participants) < minParticipants {
		return false, nil
	}

	answered := make(map[uuid.UUID]map[uuid.UUID]struct{})
	for _, a := range state.Answers {
		if answered[a.StudentID] == nil {
			answered[a.StudentID] = make(map[uuid.UUID]struct{})
		}
		answered[a.StudentID][a.RoundID] = struct{}{}
	}
	for _, p := range state.Participants {
		if len(answered[p.StudentID]) < len(state.Rounds) {
			return false, nil
		}
	}

	ranked := make([]domain.DuelParticipant, len(state.Participants))
	copy(ranked, state.Participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	winnerID := ranked[0].StudentID

	ok, err := s.duels.Finish(ctx, duelID, &winnerID, s.now())
	if err != nil {
		return false, fmt.Errorf("finish duel: %w", err)
	}
	if !ok {
		// A concurrent finalize got there first.
		return false, nil
	}

	for _, p := range state.Participants {
		bonus := participationPoints
		if p.StudentID == winnerID {
			bonus = winnerBonusPoints
		}
		if _, err := s.awards.Award(ctx, p.StudentID, bonus); err != nil {
			s.log.WarnContext(ctx, "duel bonus award failed",
				slog.String("duel_id", duelID.String()),
				slog.String("student_id", p.StudentID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.log.InfoContext(ctx, "duel finished",
		slog.String("duel_id", duelID.String()),
		slog.String("winner_id", winnerID.String()),
	)
	return true, nil
}

// GetState fetches the duel's full observable state. The four reads are
// independent and fan out concurrently.
func (s *Service) GetState(ctx context.Context, duelID uuid.UUID) (*domain.DuelState, error) {
	var state domain.DuelState

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.duels.GetDuel(gctx, duelID)
		if err != nil {
			return fmt.Errorf("get duel: %w", err)
		}
		state.Duel = *d
		return nil
	})
	g.Go(func() error {
		participants, err := s.duels.ListParticipants(gctx, duelID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		state.Participants = participants
		return nil
	})
	g.Go(func() error {
		rounds, err := s.duels.ListRounds(gctx, duelID)
		if err != nil {
			return fmt.Errorf("list rounds: %w", err)
		}
		state.Rounds = rounds
		return nil
	})
	g.Go(func() error {
		answers, err := s.duels.ListAnswers(gctx, duelID)
		if err != nil {
			return fmt.Errorf("list answers: %w", err)
		}
		state.Answers = answers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &state, nil
}

// Joinable returns waiting duels the student can join.
func (s *Service) Joinable(ctx context.Context, studentID uuid.UUID) ([]domain.Duel, error) {
	duels, err := s.duels.ListJoinable(ctx, studentID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list joinable: %w", err)
	}
	return duels, nil
}

// History returns the student's finished duels, most recent first.
func (s *Service) History(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.DuelHistoryItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	items, err := s.duels.ListHistory(ctx, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}
