// Package boost implements the teacher-boost repository using PostgreSQL.
package boost

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides boost persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new boost repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const activeAtSQL = `
SELECT id, created_by, title, description, boost_type, multiplier, flat_bonus,
       starts_at, ends_at, is_active, created_at
FROM teacher_boosts
WHERE is_active AND starts_at <= $1 AND ends_at >= $1
ORDER BY created_at DESC
LIMIT 1`

// ActiveAt returns the boost in effect at the given instant. When several
// windows overlap the most recently created boost wins. No active boost maps
// to domain.ErrNotFound.
func (r *Repo) ActiveAt(ctx context.Context, now time.Time) (*domain.Boost, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row boostRow
	if err := pgxscan.Get(ctx, q, &row, activeAtSQL, now); err != nil {
		return nil, postgres.MapError(err, "teacher_boost", uuid.Nil)
	}

	b := row.toDomain()
	return &b, nil
}

const createSQL = `
INSERT INTO teacher_boosts (id, created_by, title, description, boost_type, multiplier,
                            flat_bonus, starts_at, ends_at, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Create inserts a boost row.
func (r *Repo) Create(ctx context.Context, b *domain.Boost) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, createSQL,
		b.ID, b.CreatedBy, b.Title, b.Description, string(b.Type), b.Multiplier,
		b.FlatBonus, b.StartsAt, b.EndsAt, b.IsActive, b.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "teacher_boost", b.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type boostRow struct {
	ID          uuid.UUID `db:"id"`
	CreatedBy   uuid.UUID `db:"created_by"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	BoostType   string    `db:"boost_type"`
	Multiplier  float64   `db:"multiplier"`
	FlatBonus   int       `db:"flat_bonus"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row boostRow) toDomain() domain.Boost {
	return domain.Boost{
		ID:          row.ID,
		CreatedBy:   row.CreatedBy,
		Title:       row.Title,
		Description: row.Description,
		Type:        domain.BoostType(row.BoostType),
		Multiplier:  row.Multiplier,
		FlatBonus:   row.FlatBonus,
		StartsAt:    row.StartsAt,
		EndsAt:      row.EndsAt,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
	}
}
