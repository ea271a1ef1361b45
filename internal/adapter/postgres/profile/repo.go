// Package profile implements the Profile repository using PostgreSQL.
package profile

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new profile repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const getByIDSQL = `
SELECT id, username, role, points, streak, avatar_url, created_at
FROM profiles
WHERE id = $1`

// GetByID returns a profile by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row profileRow
	err := q.QueryRow(ctx, getByIDSQL, id).Scan(
		&row.ID, &row.Username, &row.Role, &row.Points, &row.Streak, &row.AvatarURL, &row.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}

	p := row.toDomain()
	return &p, nil
}

const createSQL = `
INSERT INTO profiles (id, username, role, points, streak, avatar_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, username, role, points, streak, avatar_url, created_at`

// Create inserts a new profile and returns the persisted row.
func (r *Repo) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row profileRow
	err := q.QueryRow(ctx, createSQL,
		p.ID, p.Username, string(p.Role), p.Points, p.Streak, p.AvatarURL, p.CreatedAt,
	).Scan(
		&row.ID, &row.Username, &row.Role, &row.Points, &row.Streak, &row.AvatarURL, &row.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "profile", p.ID)
	}

	result := row.toDomain()
	return &result, nil
}

const incrementPointsSQL = `
UPDATE profiles p
SET points = GREATEST(p.points + $2, 0)
FROM (SELECT points AS prev_points FROM profiles WHERE id = $1 FOR UPDATE) old
WHERE p.id = $1
RETURNING old.prev_points, p.points`

// IncrementPoints atomically adds delta to the profile's points, clamping the
// result at zero, and returns the previous and new totals. The read and the
// write happen in one statement so concurrent awards never lose updates.
func (r *Repo) IncrementPoints(ctx context.Context, id uuid.UUID, delta int) (prev, next int, err error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	err = q.QueryRow(ctx, incrementPointsSQL, id, delta).Scan(&prev, &next)
	if err != nil {
		return 0, 0, postgres.MapError(err, "profile", id)
	}
	return prev, next, nil
}

const updateStreakSQL = `
UPDATE profiles
SET streak = $2
WHERE id = $1`

// UpdateStreak overwrites the stored streak value.
func (r *Repo) UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, updateStreakSQL, id, streak)
	if err != nil {
		return postgres.MapError(err, "profile", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(domain.ErrNotFound, "profile", id)
	}
	return nil
}

const topByPointsSQL = `
SELECT
    p.id, p.username, p.avatar_url, p.points, p.streak,
    COUNT(*) FILTER (WHERE e.entry_type = 'vocabulary') AS words,
    COUNT(*) FILTER (WHERE e.entry_type = 'expression') AS expressions
FROM profiles p
LEFT JOIN entries e ON e.student_id = p.id
WHERE p.role = 'student'
GROUP BY p.id
ORDER BY p.points DESC, p.created_at ASC
LIMIT $1`

// TopByPoints returns the highest-scoring student profiles with their entry
// counts, ordered by points descending.
func (r *Repo) TopByPoints(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []leaderboardRow
	if err := pgxscan.Select(ctx, q, &rows, topByPointsSQL, limit); err != nil {
		return nil, postgres.MapError(err, "profile", uuid.Nil)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			ID:          row.ID,
			Username:    row.Username,
			AvatarURL:   row.AvatarURL,
			Points:      row.Points,
			Words:       int(row.Words),
			Expressions: int(row.Expressions),
			Streak:      row.Streak,
		})
	}
	return entries, nil
}

const countRicherSQL = `
SELECT COUNT(*)
FROM profiles
WHERE role = 'student' AND points > $1`

// CountRicher returns how many students hold strictly more points. Rank is
// that count plus one.
func (r *Repo) CountRicher(ctx context.Context, points int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, countRicherSQL, points).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "profile", uuid.Nil)
	}
	return n, nil
}

const teamStandingsSQL = `
SELECT t.id, t.name, t.color_hex,
       COALESCE(SUM(p.points), 0) AS points,
       COUNT(p.id)                AS members
FROM teams t
LEFT JOIN team_members tm ON tm.team_id = t.id
LEFT JOIN profiles p ON p.id = tm.student_id
GROUP BY t.id
ORDER BY points DESC`

// TeamStandings aggregates member points per team. A schema without team
// tables maps to domain.ErrUnavailable and the caller serves the built-in
// fallback standings.
func (r *Repo) TeamStandings(ctx context.Context) ([]domain.TeamStanding, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []teamRow
	if err := pgxscan.Select(ctx, q, &rows, teamStandingsSQL); err != nil {
		return nil, postgres.MapError(err, "team", uuid.Nil)
	}

	standings := make([]domain.TeamStanding, 0, len(rows))
	for _, row := range rows {
		s := domain.TeamStanding{
			ID:       row.ID,
			Name:     row.Name,
			ColorHex: row.ColorHex,
			Points:   int(row.Points),
			Members:  int(row.Members),
		}
		if s.Members > 0 {
			s.AvgPoints = s.Points / s.Members
		}
		standings = append(standings, s)
	}
	return standings, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type teamRow struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	ColorHex string    `db:"color_hex"`
	Points   int64     `db:"points"`
	Members  int64     `db:"members"`
}

type profileRow struct {
	ID        uuid.UUID
	Username  string
	Role      string
	Points    int
	Streak    int
	AvatarURL *string
	CreatedAt time.Time
}

type leaderboardRow struct {
	ID          uuid.UUID `db:"id"`
	Username    string    `db:"username"`
	AvatarURL   *string   `db:"avatar_url"`
	Points      int       `db:"points"`
	Streak      int       `db:"streak"`
	Words       int64     `db:"words"`
	Expressions int64     `db:"expressions"`
}

func (row profileRow) toDomain() domain.Profile {
	return domain.Profile{
		ID:        row.ID,
		Username:  row.Username,
		Role:      domain.Role(row.Role),
		Points:    row.Points,
		Streak:    row.Streak,
		AvatarURL: row.AvatarURL,
		CreatedAt: row.CreatedAt,
	}
}
