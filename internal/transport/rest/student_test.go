package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
	"github.com/lexleague/lexleague-backend/internal/service/student"
)

type studentServiceMock struct {
	overviewFn func(ctx context.Context, studentID uuid.UUID) (*student.Overview, error)
}

func (m *studentServiceMock) Overview(ctx context.Context, studentID uuid.UUID) (*student.Overview, error) {
	return m.overviewFn(ctx, studentID)
}

func TestStudentOverview(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()

	svc := &studentServiceMock{
		overviewFn: func(_ context.Context, gotID uuid.UUID) (*student.Overview, error) {
			if gotID != studentID {
				t.Errorf("student ID = %s, want %s", gotID, studentID)
			}
			return &student.Overview{
				Profile: domain.Profile{
					ID:       studentID,
					Username: "ada",
					Role:     domain.RoleStudent,
					Points:   150,
					Streak:   5,
				},
				Metrics: domain.StudentMetrics{
					Points:               150,
					Streak:               5,
					WordsCollected:       12,
					ExpressionsCollected: 3,
				},
				Level: points.LevelInfo{Level: 2, Title: "Word Scout", MinPoints: 100},
			}, nil
		},
	}
	h := NewStudentHandler(svc, testLogger())

	req := newStudentRequest(t, http.MethodGet, "/api/v1/me/overview", nil, studentID)
	rec := httptest.NewRecorder()

	h.Overview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp overviewResponse
	decodeJSONBody(t, rec, &resp)
	if resp.Profile.Username != "ada" {
		t.Errorf("username = %q", resp.Profile.Username)
	}
	if resp.Metrics.WordsCollected != 12 {
		t.Errorf("wordsCollected = %d, want 12", resp.Metrics.WordsCollected)
	}
	if resp.Level.Level != 2 {
		t.Errorf("level = %d, want 2", resp.Level.Level)
	}
}

func TestStudentOverview_NotFound(t *testing.T) {
	t.Parallel()

	svc := &studentServiceMock{
		overviewFn: func(context.Context, uuid.UUID) (*student.Overview, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewStudentHandler(svc, testLogger())

	req := newStudentRequest(t, http.MethodGet, "/api/v1/me/overview", nil, uuid.New())
	rec := httptest.NewRecorder()

	h.Overview(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
