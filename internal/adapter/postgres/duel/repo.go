// Package duel implements the duel repository using PostgreSQL.
package duel

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides duel persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new duel repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const createDuelSQL = `
INSERT INTO duels (id, created_by, status, created_at)
VALUES ($1, $2, $3, $4)`

// CreateDuel inserts the duel row. Rounds and the creator's participant row
// are inserted separately, inside the same transaction.
func (r *Repo) CreateDuel(ctx context.Context, d *domain.Duel) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, createDuelSQL, d.ID, d.CreatedBy, string(d.Status), d.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "duel", d.ID)
	}
	return nil
}

const insertRoundSQL = `
INSERT INTO duel_rounds (id, duel_id, round_number, prompt, correct_answer, options)
VALUES ($1, $2, $3, $4, $5, $6)`

// InsertRounds inserts all rounds of a duel.
func (r *Repo) InsertRounds(ctx context.Context, rounds []domain.DuelRound) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	for _, round := range rounds {
		_, err := q.Exec(ctx, insertRoundSQL,
			round.ID, round.DuelID, round.RoundNumber, round.Prompt, round.CorrectAnswer, round.Options,
		)
		if err != nil {
			return postgres.MapError(err, "duel_round", round.ID)
		}
	}
	return nil
}

const getDuelSQL = `
SELECT id, created_by, status, started_at, finished_at, winner_id, created_at
FROM duels
WHERE id = $1`

// GetDuel returns a duel by primary key.
func (r *Repo) GetDuel(ctx context.Context, id uuid.UUID) (*domain.Duel, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row duelRow
	if err := pgxscan.Get(ctx, q, &row, getDuelSQL, id); err != nil {
		return nil, postgres.MapError(err, "duel", id)
	}

	d := row.toDomain()
	return &d, nil
}

const listRoundsSQL = `
SELECT id, duel_id, round_number, prompt, correct_answer, options
FROM duel_rounds
WHERE duel_id = $1
ORDER BY round_number ASC`

// ListRounds returns the duel's rounds in play order.
func (r *Repo) ListRounds(ctx context.Context, duelID uuid.UUID) ([]domain.DuelRound, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []roundRow
	if err := pgxscan.Select(ctx, q, &rows, listRoundsSQL, duelID); err != nil {
		return nil, postgres.MapError(err, "duel_round", duelID)
	}

	rounds := make([]domain.DuelRound, 0, len(rows))
	for _, row := range rows {
		rounds = append(rounds, row.toDomain())
	}
	return rounds, nil
}

const addParticipantSQL = `
INSERT INTO duel_participants (duel_id, student_id, total_score, correct_answers, joined_at)
VALUES ($1, $2, 0, 0, $3)`

// AddParticipant inserts a participant row. A duplicate join maps to
// domain.ErrAlreadyExists via the (duel_id, student_id) unique constraint.
func (r *Repo) AddParticipant(ctx context.Context, duelID, studentID uuid.UUID, joinedAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, addParticipantSQL, duelID, studentID, joinedAt)
	if err != nil {
		return postgres.MapError(err, "duel_participant", duelID)
	}
	return nil
}

const listParticipantsSQL = `
SELECT duel_id, student_id, total_score, correct_answers, joined_at
FROM duel_participants
WHERE duel_id = $1
ORDER BY joined_at ASC`

// ListParticipants returns the duel's participants in join order.
func (r *Repo) ListParticipants(ctx context.Context, duelID uuid.UUID) ([]domain.DuelParticipant, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []participantRow
	if err := pgxscan.Select(ctx, q, &rows, listParticipantsSQL, duelID); err != nil {
		return nil, postgres.MapError(err, "duel_participant", duelID)
	}

	participants := make([]domain.DuelParticipant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, row.toDomain())
	}
	return participants, nil
}

const updateStatusSQL = `
UPDATE duels
SET status = $3, started_at = COALESCE($4, started_at)
WHERE id = $1 AND status = $2`

// UpdateStatus flips the duel status with a compare-and-swap on the current
// status. Returns false when the duel was not in the expected status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.DuelStatus, startedAt *time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateStatusSQL, id, string(from), string(to), startedAt)
	if err != nil {
		return false, postgres.MapError(err, "duel", id)
	}
	return tag.RowsAffected() > 0, nil
}

const finishDuelSQL = `
UPDATE duels
SET status = 'finished', winner_id = $2, finished_at = $3
WHERE id = $1 AND status = 'active'`

// Finish marks an active duel finished with the given winner. Returns false
// when the duel was no longer active (a concurrent finalize won).
func (r *Repo) Finish(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, finishedAt time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, finishDuelSQL, id, winnerID, finishedAt)
	if err != nil {
		return false, postgres.MapError(err, "duel", id)
	}
	return tag.RowsAffected() > 0, nil
}

const insertAnswerSQL = `
INSERT INTO duel_answers (id, duel_id, round_id, student_id, selected_answer,
                          is_correct, response_time_ms, points_earned, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// InsertAnswer records one answer. The (duel_id, round_id, student_id) unique
// constraint makes re-answering map to domain.ErrAlreadyExists.
func (r *Repo) InsertAnswer(ctx context.Context, a *domain.DuelAnswer) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, insertAnswerSQL,
		a.ID, a.DuelID, a.RoundID, a.StudentID, a.SelectedAnswer,
		a.IsCorrect, a.ResponseTimeMs, a.PointsEarned, a.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "duel_answer", a.ID)
	}
	return nil
}

const listAnswersSQL = `
SELECT id, duel_id, round_id, student_id, selected_answer, is_correct,
       response_time_ms, points_earned, created_at
FROM duel_answers
WHERE duel_id = $1
ORDER BY created_at ASC`

// ListAnswers returns all answers submitted in the duel.
func (r *Repo) ListAnswers(ctx context.Context, duelID uuid.UUID) ([]domain.DuelAnswer, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []answerRow
	if err := pgxscan.Select(ctx, q, &rows, listAnswersSQL, duelID); err != nil {
		return nil, postgres.MapError(err, "duel_answer", duelID)
	}

	answers := make([]domain.DuelAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, row.toDomain())
	}
	return answers, nil
}

const addScoreSQL = `
UPDATE duel_participants
SET total_score = total_score + $3,
    correct_answers = correct_answers + $4
WHERE duel_id = $1 AND student_id = $2`

// AddScore atomically adds to a participant's score counters.
func (r *Repo) AddScore(ctx context.Context, duelID, studentID uuid.UUID, points, correctDelta int) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, addScoreSQL, duelID, studentID, points, correctDelta)
	if err != nil {
		return postgres.MapError(err, "duel_participant", duelID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(domain.ErrNotFound, "duel_participant", duelID)
	}
	return nil
}

// ListJoinable returns waiting duels the student can join: not their own and
// not already joined.
func (r *Repo) ListJoinable(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.Duel, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := squirrel.
		Select("d.id", "d.created_by", "d.status", "d.started_at", "d.finished_at", "d.winner_id", "d.created_at").
		From("duels d").
		Where(squirrel.Eq{"d.status": string(domain.DuelWaiting)}).
		Where(squirrel.NotEq{"d.created_by": studentID}).
		Where("NOT EXISTS (SELECT 1 FROM duel_participants dp WHERE dp.duel_id = d.id AND dp.student_id = ?)", studentID).
		OrderBy("d.created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "duel", studentID)
	}

	var rows []duelRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "duel", studentID)
	}

	duels := make([]domain.Duel, 0, len(rows))
	for _, row := range rows {
		duels = append(duels, row.toDomain())
	}
	return duels, nil
}

const listHistorySQL = `
SELECT dp.duel_id, dp.student_id, dp.total_score, dp.correct_answers, dp.joined_at,
       d.id, d.created_by, d.status, d.started_at, d.finished_at, d.winner_id, d.created_at
FROM duel_participants dp
JOIN duels d ON d.id = dp.duel_id
WHERE dp.student_id = $1 AND d.status = 'finished'
ORDER BY d.finished_at DESC
LIMIT $2`

// ListHistory returns the student's finished duels, most recent first.
func (r *Repo) ListHistory(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.DuelHistoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listHistorySQL, studentID, limit)
	if err != nil {
		return nil, postgres.MapError(err, "duel_participant", studentID)
	}
	defer rows.Close()

	var items []domain.DuelHistoryItem
	for rows.Next() {
		var p participantRow
		var d duelRow
		err := rows.Scan(
			&p.DuelID, &p.StudentID, &p.TotalScore, &p.CorrectAnswers, &p.JoinedAt,
			&d.ID, &d.CreatedBy, &d.Status, &d.StartedAt, &d.FinishedAt, &d.WinnerID, &d.CreatedAt,
		)
		if err != nil {
			return nil, postgres.MapError(err, "duel_participant", studentID)
		}
		duel := d.toDomain()
		items = append(items, domain.DuelHistoryItem{Participant: p.toDomain(), Duel: &duel})
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "duel_participant", studentID)
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type duelRow struct {
	ID         uuid.UUID  `db:"id"`
	CreatedBy  uuid.UUID  `db:"created_by"`
	Status     string     `db:"status"`
	StartedAt  *time.Time `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	WinnerID   *uuid.UUID `db:"winner_id"`
	CreatedAt  time.Time  `db:"created_at"`
}

type roundRow struct {
	ID            uuid.UUID `db:"id"`
	DuelID        uuid.UUID `db:"duel_id"`
	RoundNumber   int       `db:"round_number"`
	Prompt        string    `db:"prompt"`
	CorrectAnswer string    `db:"correct_answer"`
	Options       []string  `db:"options"`
}

type participantRow struct {
	DuelID         uuid.UUID `db:"duel_id"`
	StudentID      uuid.UUID `db:"student_id"`
	TotalScore     int       `db:"total_score"`
	CorrectAnswers int       `db:"correct_answers"`
	JoinedAt       time.Time `db:"joined_at"`
}

type answerRow struct {
	ID             uuid.UUID `db:"id"`
	DuelID         uuid.UUID `db:"duel_id"`
	RoundID        uuid.UUID `db:"round_id"`
	StudentID      uuid.UUID `db:"student_id"`
	SelectedAnswer string    `db:"selected_answer"`
	IsCorrect      bool      `db:"is_correct"`
	ResponseTimeMs int       `db:"response_time_ms"`
	PointsEarned   int       `db:"points_earned"`
	CreatedAt      time.Time `db:"created_at"`
}

func (row duelRow) toDomain() domain.Duel {
	return domain.Duel{
		ID:         row.ID,
		CreatedBy:  row.CreatedBy,
		Status:     domain.DuelStatus(row.Status),
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		WinnerID:   row.WinnerID,
		CreatedAt:  row.CreatedAt,
	}
}

func (row roundRow) toDomain() domain.DuelRound {
	return domain.DuelRound{
		ID:            row.ID,
		DuelID:        row.DuelID,
		RoundNumber:   row.RoundNumber,
		Prompt:        row.Prompt,
		CorrectAnswer: row.CorrectAnswer,
		Options:       row.Options,
	}
}

func (row participantRow) toDomain() domain.DuelParticipant {
	return domain.DuelParticipant{
		DuelID:         row.DuelID,
		StudentID:      row.StudentID,
		TotalScore:     row.TotalScore,
		CorrectAnswers: row.CorrectAnswers,
		JoinedAt:       row.JoinedAt,
	}
}

func (row answerRow) toDomain() domain.DuelAnswer {
	return domain.DuelAnswer{
		ID:             row.ID,
		DuelID:         row.DuelID,
		RoundID:        row.RoundID,
		StudentID:      row.StudentID,
		SelectedAnswer: row.SelectedAnswer,
		IsCorrect:      row.IsCorrect,
		ResponseTimeMs: row.ResponseTimeMs,
		PointsEarned:   row.PointsEarned,
		CreatedAt:      row.CreatedAt,
	}
}
