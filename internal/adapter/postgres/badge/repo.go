// Package badge implements the badge repository using PostgreSQL.
package badge

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides badge persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new badge repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const listDefinitionsSQL = `
SELECT id, slug, name, description, icon, color, metric, target, reward_points, is_active, created_at
FROM badge_definitions
WHERE is_active
ORDER BY target ASC, created_at ASC`

// ListDefinitions returns all active badge definitions. A missing table maps
// to domain.ErrUnavailable, which callers treat as "use the built-in set".
func (r *Repo) ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []definitionRow
	if err := pgxscan.Select(ctx, q, &rows, listDefinitionsSQL); err != nil {
		return nil, postgres.MapError(err, "badge_definition", uuid.Nil)
	}

	defs := make([]domain.BadgeDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, row.toDomain())
	}
	return defs, nil
}

const listProgressSQL = `
SELECT badge_id, student_id, progress_value, unlocked, unlocked_at, awarded_points
FROM student_badges
WHERE student_id = $1`

// ListProgress returns the student's per-badge progress rows.
func (r *Repo) ListProgress(ctx context.Context, studentID uuid.UUID) ([]domain.BadgeProgress, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []progressRow
	if err := pgxscan.Select(ctx, q, &rows, listProgressSQL, studentID); err != nil {
		return nil, postgres.MapError(err, "student_badge", studentID)
	}

	progress := make([]domain.BadgeProgress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, row.toDomain())
	}
	return progress, nil
}

const upsertProgressSQL = `
INSERT INTO student_badges (student_id, badge_id, progress_value, unlocked, unlocked_at, awarded_points)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (student_id, badge_id) DO UPDATE
SET progress_value = EXCLUDED.progress_value,
    unlocked       = student_badges.unlocked OR EXCLUDED.unlocked,
    unlocked_at    = COALESCE(student_badges.unlocked_at, EXCLUDED.unlocked_at),
    awarded_points = GREATEST(student_badges.awarded_points, EXCLUDED.awarded_points)`

// UpsertProgress writes the evaluated progress rows. Unlock state is
// monotonic: the upsert never clears unlocked, unlocked_at or awarded_points.
func (r *Repo) UpsertProgress(ctx context.Context, rows []domain.BadgeProgress) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	for _, row := range rows {
		_, err := q.Exec(ctx, upsertProgressSQL,
			row.StudentID, row.BadgeID, row.ProgressValue, row.Unlocked, row.UnlockedAt, row.AwardedPoints,
		)
		if err != nil {
			return postgres.MapError(err, "student_badge", row.StudentID)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type definitionRow struct {
	ID           uuid.UUID `db:"id"`
	Slug         string    `db:"slug"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Icon         string    `db:"icon"`
	Color        string    `db:"color"`
	Metric       string    `db:"metric"`
	Target       int       `db:"target"`
	RewardPoints int       `db:"reward_points"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

type progressRow struct {
	BadgeID       uuid.UUID  `db:"badge_id"`
	StudentID     uuid.UUID  `db:"student_id"`
	ProgressValue int        `db:"progress_value"`
	Unlocked      bool       `db:"unlocked"`
	UnlockedAt    *time.Time `db:"unlocked_at"`
	AwardedPoints int        `db:"awarded_points"`
}

func (row definitionRow) toDomain() domain.BadgeDefinition {
	return domain.BadgeDefinition{
		ID:           row.ID,
		Slug:         row.Slug,
		Name:         row.Name,
		Description:  row.Description,
		Icon:         row.Icon,
		Color:        row.Color,
		Metric:       domain.ChallengeMetric(row.Metric),
		Target:       row.Target,
		RewardPoints: row.RewardPoints,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
	}
}

func (row progressRow) toDomain() domain.BadgeProgress {
	return domain.BadgeProgress{
		BadgeID:       row.BadgeID,
		StudentID:     row.StudentID,
		ProgressValue: row.ProgressValue,
		Unlocked:      row.Unlocked,
		UnlockedAt:    row.UnlockedAt,
		AwardedPoints: row.AwardedPoints,
	}
}
