// Package challenge implements the daily-challenge and quest repository
// using PostgreSQL.
package challenge

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides challenge and quest persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new challenge repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const challengeForDateSQL = `
SELECT id, created_by, title, description, metric, target_value, reward_points,
       challenge_date, is_active
FROM daily_challenges
WHERE is_active AND challenge_date = $1
ORDER BY challenge_date DESC
LIMIT 1`

// ForDate returns the active challenge published for the given UTC date.
// None scheduled maps to domain.ErrNotFound; a missing table maps to
// domain.ErrUnavailable.
func (r *Repo) ForDate(ctx context.Context, date time.Time) (*domain.DailyChallenge, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row challengeRow
	if err := pgxscan.Get(ctx, q, &row, challengeForDateSQL, date); err != nil {
		return nil, postgres.MapError(err, "daily_challenge", uuid.Nil)
	}

	c := row.toDomain()
	return &c, nil
}

const insertClaimSQL = `
INSERT INTO daily_challenge_claims (id, challenge_id, student_id, entry_id, points_awarded, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// InsertClaim records a student's daily-hook claim. A repeat claim for the
// same challenge maps to domain.ErrAlreadyExists via the
// (challenge_id, student_id) unique constraint.
func (r *Repo) InsertClaim(ctx context.Context, c *domain.ChallengeClaim) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, insertClaimSQL,
		c.ID, c.ChallengeID, c.StudentID, c.EntryID, c.PointsAwarded, c.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "challenge_claim", c.ID)
	}
	return nil
}

const deleteClaimSQL = `
DELETE FROM daily_challenge_claims
WHERE id = $1`

// DeleteClaim removes a claim, used to roll back when the bonus award fails.
func (r *Repo) DeleteClaim(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, deleteClaimSQL, id); err != nil {
		return postgres.MapError(err, "challenge_claim", id)
	}
	return nil
}

const updateClaimPointsSQL = `
UPDATE daily_challenge_claims
SET points_awarded = $2
WHERE id = $1`

// UpdateClaimPoints records the points actually awarded for a claim.
func (r *Repo) UpdateClaimPoints(ctx context.Context, id uuid.UUID, points int) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, updateClaimPointsSQL, id, points); err != nil {
		return postgres.MapError(err, "challenge_claim", id)
	}
	return nil
}

const listActiveQuestsSQL = `
SELECT id, created_by, title, description, metric, target_value, reward_points,
       start_date, end_date, is_active, created_at
FROM quests
WHERE is_active
  AND (start_date IS NULL OR start_date <= $1)
  AND (end_date IS NULL OR end_date >= $1)
ORDER BY created_at ASC`

// ListActiveQuests returns quests whose window contains now. A missing table
// maps to domain.ErrUnavailable, which callers treat as "use the built-ins".
func (r *Repo) ListActiveQuests(ctx context.Context, now time.Time) ([]domain.Quest, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []questRow
	if err := pgxscan.Select(ctx, q, &rows, listActiveQuestsSQL, now); err != nil {
		return nil, postgres.MapError(err, "quest", uuid.Nil)
	}

	quests := make([]domain.Quest, 0, len(rows))
	for _, row := range rows {
		quests = append(quests, row.toDomain())
	}
	return quests, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type challengeRow struct {
	ID            uuid.UUID  `db:"id"`
	CreatedBy     *uuid.UUID `db:"created_by"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	Metric        string     `db:"metric"`
	TargetValue   int        `db:"target_value"`
	RewardPoints  int        `db:"reward_points"`
	ChallengeDate time.Time  `db:"challenge_date"`
	IsActive      bool       `db:"is_active"`
}

type questRow struct {
	ID           uuid.UUID  `db:"id"`
	CreatedBy    *uuid.UUID `db:"created_by"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	Metric       string     `db:"metric"`
	TargetValue  int        `db:"target_value"`
	RewardPoints int        `db:"reward_points"`
	StartDate    *time.Time `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (row challengeRow) toDomain() domain.DailyChallenge {
	return domain.DailyChallenge{
		ID:            row.ID,
		CreatedBy:     row.CreatedBy,
		Title:         row.Title,
		Description:   row.Description,
		Metric:        domain.ChallengeMetric(row.Metric),
		TargetValue:   row.TargetValue,
		RewardPoints:  row.RewardPoints,
		ChallengeDate: row.ChallengeDate,
		IsActive:      row.IsActive,
	}
}

func (row questRow) toDomain() domain.Quest {
	return domain.Quest{
		ID:           row.ID,
		CreatedBy:    row.CreatedBy,
		Title:        row.Title,
		Description:  row.Description,
		Metric:       domain.ChallengeMetric(row.Metric),
		TargetValue:  row.TargetValue,
		RewardPoints: row.RewardPoints,
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
	}
}
