// Package review implements the review-item repository using PostgreSQL.
package review

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides review-item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new review repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const ensureItemSQL = `
INSERT INTO review_items (id, student_id, entry_id, entry_type, prompt, answer, context_hint,
                          status, due_at, interval_days, ease_factor, repetitions, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (student_id, entry_id) DO NOTHING`

// EnsureItem inserts a review item for (student, entry) if none exists yet.
// A second call for the same pair is a no-op.
func (r *Repo) EnsureItem(ctx context.Context, item *domain.ReviewItem) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, ensureItemSQL,
		item.ID, item.StudentID, item.EntryID, string(item.EntryType), item.Prompt, item.Answer,
		item.ContextHint, string(item.Status), item.DueAt, item.IntervalDays, item.EaseFactor,
		item.Repetitions, item.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "review_item", item.ID)
	}
	return nil
}

const itemColumns = `id, student_id, entry_id, entry_type, prompt, answer, context_hint,
       status, due_at, last_reviewed_at, interval_days, ease_factor, repetitions, created_at`

const getByIDSQL = `
SELECT ` + itemColumns + `
FROM review_items
WHERE id = $1`

// GetByID returns a review item by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row itemRow
	if err := pgxscan.Get(ctx, q, &row, getByIDSQL, id); err != nil {
		return nil, postgres.MapError(err, "review_item", id)
	}

	item := row.toDomain()
	return &item, nil
}

const listDueSQL = `
SELECT ` + itemColumns + `
FROM review_items
WHERE student_id = $1 AND due_at <= $2
ORDER BY due_at ASC
LIMIT $3`

// ListDue returns the student's items due at or before now, earliest first.
// Mastered items stay in rotation; mastery only changes the status label.
func (r *Repo) ListDue(ctx context.Context, studentID uuid.UUID, now time.Time, limit int) ([]domain.ReviewItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []itemRow
	if err := pgxscan.Select(ctx, q, &rows, listDueSQL, studentID, now, limit); err != nil {
		return nil, postgres.MapError(err, "review_item", studentID)
	}

	items := make([]domain.ReviewItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

const updateScheduleSQL = `
UPDATE review_items
SET status = $2, due_at = $3, last_reviewed_at = $4,
    interval_days = $5, ease_factor = $6, repetitions = $7
WHERE id = $1`

// UpdateSchedule persists the scheduler's new state for an item.
func (r *Repo) UpdateSchedule(ctx context.Context, item *domain.ReviewItem) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateScheduleSQL,
		item.ID, string(item.Status), item.DueAt, item.LastReviewedAt,
		item.IntervalDays, item.EaseFactor, item.Repetitions,
	)
	if err != nil {
		return postgres.MapError(err, "review_item", item.ID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(domain.ErrNotFound, "review_item", item.ID)
	}
	return nil
}

const recentReviewDatesSQL = `
SELECT last_reviewed_at
FROM review_items
WHERE student_id = $1 AND last_reviewed_at IS NOT NULL
ORDER BY last_reviewed_at DESC
LIMIT $2`

// RecentReviewDates returns the newest review timestamps for the student,
// for streak recomputation.
func (r *Repo) RecentReviewDates(ctx context.Context, studentID uuid.UUID, limit int) ([]time.Time, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var dates []time.Time
	if err := pgxscan.Select(ctx, q, &dates, recentReviewDatesSQL, studentID, limit); err != nil {
		return nil, postgres.MapError(err, "review_item", studentID)
	}
	return dates, nil
}

const analyticsSQL = `
SELECT
    COUNT(*) FILTER (WHERE status = 'learning' AND due_at <= $1)            AS due_now,
    COUNT(*) FILTER (WHERE last_reviewed_at >= $2)                          AS completed_today,
    COUNT(*) FILTER (WHERE status = 'mastered')                             AS mastered_count,
    COUNT(*)                                                                AS total_items,
    COUNT(DISTINCT student_id) FILTER (WHERE last_reviewed_at >= $2)        AS active_students
FROM review_items`

// Analytics returns aggregate review activity. startOfDay is the UTC midnight
// bounding "today".
func (r *Repo) Analytics(ctx context.Context, now, startOfDay time.Time) (domain.ReviewAnalytics, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var a domain.ReviewAnalytics
	err := q.QueryRow(ctx, analyticsSQL, now, startOfDay).Scan(
		&a.DueNow, &a.CompletedToday, &a.MasteredCount, &a.TotalReviewItems, &a.ActiveStudentsToday,
	)
	if err != nil {
		return domain.ReviewAnalytics{}, postgres.MapError(err, "review_item", uuid.Nil)
	}
	return a, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type itemRow struct {
	ID             uuid.UUID  `db:"id"`
	StudentID      uuid.UUID  `db:"student_id"`
	EntryID        uuid.UUID  `db:"entry_id"`
	EntryType      string     `db:"entry_type"`
	Prompt         string     `db:"prompt"`
	Answer         string     `db:"answer"`
	ContextHint    *string    `db:"context_hint"`
	Status         string     `db:"status"`
	DueAt          time.Time  `db:"due_at"`
	LastReviewedAt *time.Time `db:"last_reviewed_at"`
	IntervalDays   int        `db:"interval_days"`
	EaseFactor     float64    `db:"ease_factor"`
	Repetitions    int        `db:"repetitions"`
	CreatedAt      time.Time  `db:"created_at"`
}

func (row itemRow) toDomain() domain.ReviewItem {
	return domain.ReviewItem{
		ID:             row.ID,
		StudentID:      row.StudentID,
		EntryID:        row.EntryID,
		EntryType:      domain.EntryType(row.EntryType),
		Prompt:         row.Prompt,
		Answer:         row.Answer,
		ContextHint:    row.ContextHint,
		Status:         domain.ReviewStatus(row.Status),
		DueAt:          row.DueAt,
		LastReviewedAt: row.LastReviewedAt,
		IntervalDays:   row.IntervalDays,
		EaseFactor:     row.EaseFactor,
		Repetitions:    row.Repetitions,
		CreatedAt:      row.CreatedAt,
	}
}
