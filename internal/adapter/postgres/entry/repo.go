// Package entry implements the collected-entry repository using PostgreSQL.
package entry

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new entry repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const createSQL = `
INSERT INTO entries (id, student_id, material_id, entry_type, text, text_normalized,
                     definition, example, category, image_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING created_at`

// Create inserts a new entry and returns it with the persisted timestamp.
func (r *Repo) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	result := *e
	err := q.QueryRow(ctx, createSQL,
		e.ID, e.StudentID, e.MaterialID, string(e.Type), e.Text, e.TextNormalized,
		e.Definition, e.Example, e.Category, e.ImageURL, e.CreatedAt,
	).Scan(&result.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "entry", e.ID)
	}
	return &result, nil
}

const countByTypeSQL = `
SELECT COUNT(*)
FROM entries
WHERE student_id = $1 AND entry_type = $2`

// CountByType returns how many entries of the given type the student has.
func (r *Repo) CountByType(ctx context.Context, studentID uuid.UUID, t domain.EntryType) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, countByTypeSQL, studentID, string(t)).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "entry", studentID)
	}
	return n, nil
}

const existsNormalizedSQL = `
SELECT EXISTS (
    SELECT 1 FROM entries
    WHERE text_normalized = $1 AND student_id <> $2
)`

// ExistsNormalized reports whether another student already collected an entry
// with the same normalized text. Uses the index on text_normalized; on schemas
// without that column the error maps to domain.ErrUnavailable and the caller
// falls back to the window scan.
func (r *Repo) ExistsNormalized(ctx context.Context, normalized string, excludeStudent uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, existsNormalizedSQL, normalized, excludeStudent).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "entry", excludeStudent)
	}
	return exists, nil
}

const recentNormalizedSQL = `
SELECT text_normalized
FROM entries
WHERE student_id <> $1
ORDER BY created_at DESC
LIMIT $2`

const recentRawSQL = `
SELECT text
FROM entries
WHERE student_id <> $1
ORDER BY created_at DESC
LIMIT $2`

// RecentTexts returns the newest entry texts from other students for the
// similarity scan. It prefers the precomputed text_normalized column; when
// that column does not exist it falls back to raw text and reports
// normalized=false so the caller normalizes at comparison time.
func (r *Repo) RecentTexts(ctx context.Context, excludeStudent uuid.UUID, limit int) (texts []string, normalized bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if err = pgxscan.Select(ctx, q, &texts, recentNormalizedSQL, excludeStudent, limit); err == nil {
		return texts, true, nil
	}
	if !postgres.IsUndefinedColumn(err) {
		return nil, false, postgres.MapError(err, "entry", excludeStudent)
	}

	texts = nil
	if err = pgxscan.Select(ctx, q, &texts, recentRawSQL, excludeStudent, limit); err != nil {
		return nil, false, postgres.MapError(err, "entry", excludeStudent)
	}
	return texts, false, nil
}

// ListByStudent returns the student's collection, newest first, optionally
// filtered by type and category.
func (r *Repo) ListByStudent(ctx context.Context, studentID uuid.UUID, f domain.EntryFilter) ([]domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := squirrel.
		Select("id", "student_id", "material_id", "entry_type", "text", "text_normalized",
			"definition", "example", "category", "image_url", "created_at").
		From("entries").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if f.Type != nil {
		builder = builder.Where(squirrel.Eq{"entry_type": string(*f.Type)})
	}
	if f.Category != nil {
		builder = builder.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "entry", studentID)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "entry", studentID)
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type entryRow struct {
	ID             uuid.UUID  `db:"id"`
	StudentID      uuid.UUID  `db:"student_id"`
	MaterialID     *uuid.UUID `db:"material_id"`
	EntryType      string     `db:"entry_type"`
	Text           string     `db:"text"`
	TextNormalized string     `db:"text_normalized"`
	Definition     string     `db:"definition"`
	Example        string     `db:"example"`
	Category       *string    `db:"category"`
	ImageURL       *string    `db:"image_url"`
	CreatedAt      time.Time  `db:"created_at"`
}

func (row entryRow) toDomain() domain.Entry {
	return domain.Entry{
		ID:             row.ID,
		StudentID:      row.StudentID,
		MaterialID:     row.MaterialID,
		Type:           domain.EntryType(row.EntryType),
		Text:           row.Text,
		TextNormalized: row.TextNormalized,
		Definition:     row.Definition,
		Example:        row.Example,
		Category:       row.Category,
		ImageURL:       row.ImageURL,
		CreatedAt:      row.CreatedAt,
	}
}
