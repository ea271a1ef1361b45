package profile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/lexleague/lexleague-backend/internal/adapter/postgres/profile"
	"github.com/lexleague/lexleague-backend/internal/domain"
)

func newMock(t *testing.T) (*profile.Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return profile.New(mock), mock
}

func TestRepo_GetByID(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	avatar := "https://example.com/a.png"

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		check   func(t *testing.T, got *domain.Profile)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "username", "role", "points", "streak", "avatar_url", "created_at"}).
					AddRow(id, "lena", "student", 140, 3, &avatar, now)
				mock.ExpectQuery(`SELECT id, username`).WithArgs(id).WillReturnRows(rows)
			},
			check: func(t *testing.T, got *domain.Profile) {
				if got.Username != "lena" {
					t.Errorf("Username = %q, want %q", got.Username, "lena")
				}
				if got.Role != domain.RoleStudent {
					t.Errorf("Role = %q, want student", got.Role)
				}
				if got.Points != 140 {
					t.Errorf("Points = %d, want 140", got.Points)
				}
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username`).WithArgs(id).WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			tt.setup(mock)

			got, err := repo.GetByID(context.Background(), id)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetByID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByID() unexpected error: %v", err)
			}
			tt.check(t, got)

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRepo_IncrementPoints(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	rows := pgxmock.NewRows([]string{"prev_points", "points"}).AddRow(100, 124)
	mock.ExpectQuery(`UPDATE profiles`).WithArgs(id, 24).WillReturnRows(rows)

	prev, next, err := repo.IncrementPoints(context.Background(), id, 24)
	if err != nil {
		t.Fatalf("IncrementPoints: %v", err)
	}
	if prev != 100 || next != 124 {
		t.Errorf("IncrementPoints = (%d, %d), want (100, 124)", prev, next)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_IncrementPoints_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE profiles`).WithArgs(id, 10).WillReturnError(pgx.ErrNoRows)

	_, _, err := repo.IncrementPoints(context.Background(), id, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("IncrementPoints error = %v, want ErrNotFound", err)
	}
}

func TestRepo_UpdateStreak(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE profiles`).WithArgs(id, 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStreak(context.Background(), id, 5); err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_UpdateStreak_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE profiles`).WithArgs(id, 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStreak(context.Background(), id, 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateStreak error = %v, want ErrNotFound", err)
	}
}

func TestRepo_TopByPoints(t *testing.T) {
	repo, mock := newMock(t)

	a, b := uuid.New(), uuid.New()
	rows := pgxmock.NewRows([]string{"id", "username", "avatar_url", "points", "streak", "words", "expressions"}).
		AddRow(a, "first", (*string)(nil), 500, 7, int64(30), int64(4)).
		AddRow(b, "second", (*string)(nil), 420, 2, int64(25), int64(2))
	mock.ExpectQuery(`SELECT`).WithArgs(10).WillReturnRows(rows)

	got, err := repo.TopByPoints(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopByPoints: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("TopByPoints returned %d rows, want 2", len(got))
	}
	if got[0].ID != a || got[0].Points != 500 || got[0].Words != 30 {
		t.Errorf("first row mismatch: %+v", got[0])
	}
	if got[1].Username != "second" || got[1].Expressions != 2 {
		t.Errorf("second row mismatch: %+v", got[1])
	}
}

func TestRepo_CountRicher(t *testing.T) {
	repo, mock := newMock(t)

	rows := pgxmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT COUNT`).WithArgs(420).WillReturnRows(rows)

	n, err := repo.CountRicher(context.Background(), 420)
	if err != nil {
		t.Fatalf("CountRicher: %v", err)
	}
	if n != 3 {
		t.Errorf("CountRicher = %d, want 3", n)
	}
}
