// Package stream implements the activity-stream repository using PostgreSQL.
package stream

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/lexleague/lexleague-backend/internal/adapter/postgres"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

// Repo provides activity-stream persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new stream repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const createPostSQL = `
INSERT INTO stream_posts (id, author_id, body, is_system, created_at)
VALUES ($1, $2, $3, $4, $5)`

// CreatePost inserts an activity-feed post.
func (r *Repo) CreatePost(ctx context.Context, p *domain.StreamPost) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, createPostSQL, p.ID, p.AuthorID, p.Body, p.System, p.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "stream_post", p.ID)
	}
	return nil
}

const listRecentSQL = `
SELECT id, author_id, body, is_system, created_at
FROM stream_posts
ORDER BY created_at DESC
LIMIT $1`

// ListRecent returns the newest posts, most recent first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.StreamPost, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []postRow
	if err := pgxscan.Select(ctx, q, &rows, listRecentSQL, limit); err != nil {
		return nil, postgres.MapError(err, "stream_post", uuid.Nil)
	}

	posts := make([]domain.StreamPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toDomain())
	}
	return posts, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type postRow struct {
	ID        uuid.UUID `db:"id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Body      string    `db:"body"`
	IsSystem  bool      `db:"is_system"`
	CreatedAt time.Time `db:"created_at"`
}

func (row postRow) toDomain() domain.StreamPost {
	return domain.StreamPost{
		ID:        row.ID,
		AuthorID:  row.AuthorID,
		Body:      row.Body,
		System:    row.IsSystem,
		CreatedAt: row.CreatedAt,
	}
}
