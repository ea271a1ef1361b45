package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/auth"
	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
	"github.com/lexleague/lexleague-backend/internal/service/review"
)

type reviewServiceMock struct {
	dueFn       func(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.ReviewItem, error)
	submitFn    func(ctx context.Context, studentID, itemID uuid.UUID, rating domain.ReviewRating) (*review.SubmitResult, error)
	analyticsFn func(ctx context.Context) (domain.ReviewAnalytics, error)
}

func (m *reviewServiceMock) DueItems(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.ReviewItem, error) {
	return m.dueFn(ctx, studentID, limit)
}

func (m *reviewServiceMock) SubmitRating(ctx context.Context, studentID, itemID uuid.UUID, rating domain.ReviewRating) (*review.SubmitResult, error) {
	return m.submitFn(ctx, studentID, itemID, rating)
}

func (m *reviewServiceMock) Analytics(ctx context.Context) (domain.ReviewAnalytics, error) {
	return m.analyticsFn(ctx)
}

func TestReviewDue(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	var gotLimit int

	svc := &reviewServiceMock{
		dueFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.ReviewItem, error) {
			gotLimit = limit
			return []domain.ReviewItem{
				{
					ID:        uuid.New(),
					StudentID: studentID,
					EntryID:   uuid.New(),
					EntryType: domain.EntryTypeVocabulary,
					Prompt:    "a happy accident",
					Answer:    "serendipity",
					Status:    domain.ReviewStatusLearning,
					DueAt:     time.Now(),
				},
			}, nil
		},
	}
	h := NewReviewHandler(svc, 20, testLogger())

	req := newStudentRequest(t, http.MethodGet, "/api/v1/review/due?limit=10", nil, studentID)
	rec := httptest.NewRecorder()

	h.Due(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	if gotLimit != 10 {
		t.Errorf("limit = %d, want 10", gotLimit)
	}

	var resp struct {
		Items []reviewItemDTO `json:"items"`
	}
	decodeJSONBody(t, rec, &resp)
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(resp.Items))
	}
	if resp.Items[0].Answer != "serendipity" {
		t.Errorf("answer = %q", resp.Items[0].Answer)
	}
}

func TestReviewDue_InvalidLimit(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(&reviewServiceMock{}, 20, testLogger())

	req := newStudentRequest(t, http.MethodGet, "/api/v1/review/due?limit=abc", nil, uuid.New())
	rec := httptest.NewRecorder()

	h.Due(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSubmitRating(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	itemID := uuid.New()
	var gotRating domain.ReviewRating

	svc := &reviewServiceMock{
		submitFn: func(_ context.Context, _, gotItemID uuid.UUID, rating domain.ReviewRating) (*review.SubmitResult, error) {
			if gotItemID != itemID {
				t.Errorf("item ID = %s, want %s", gotItemID, itemID)
			}
			gotRating = rating
			return &review.SubmitResult{
				Item: &domain.ReviewItem{
					ID:        itemID,
					StudentID: studentID,
					EntryID:   uuid.New(),
					EntryType: domain.EntryTypeVocabulary,
					Status:    domain.ReviewStatusLearning,
					DueAt:     time.Now().Add(24 * time.Hour),
				},
				Award:  &points.AwardResult{BasePoints: 6, AwardedPoints: 6, NewTotal: 106},
				Streak: 3,
			}, nil
		},
	}
	h := NewReviewHandler(svc, 20, testLogger())

	req := newStudentRequest(t, http.MethodPost, "/api/v1/review/items/"+itemID.String()+"/rating",
		map[string]string{"rating": "easy"}, studentID)
	req.SetPathValue("id", itemID.String())
	rec := httptest.NewRecorder()

	h.SubmitRating(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	if gotRating != domain.RatingEasy {
		t.Errorf("rating = %q, want easy", gotRating)
	}

	var resp struct {
		Streak int `json:"streak"`
		Award  *struct {
			AwardedPoints int `json:"awardedPoints"`
		} `json:"award"`
	}
	decodeJSONBody(t, rec, &resp)
	if resp.Streak != 3 {
		t.Errorf("streak = %d, want 3", resp.Streak)
	}
	if resp.Award == nil || resp.Award.AwardedPoints != 6 {
		t.Errorf("award = %+v", resp.Award)
	}
}

func TestSubmitRating_InvalidItemID(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(&reviewServiceMock{}, 20, testLogger())

	req := newStudentRequest(t, http.MethodPost, "/api/v1/review/items/nope/rating",
		map[string]string{"rating": "easy"}, uuid.New())
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	h.SubmitRating(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSubmitRating_NotFound(t *testing.T) {
	t.Parallel()

	svc := &reviewServiceMock{
		submitFn: func(context.Context, uuid.UUID, uuid.UUID, domain.ReviewRating) (*review.SubmitResult, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewReviewHandler(svc, 20, testLogger())

	itemID := uuid.New()
	req := newStudentRequest(t, http.MethodPost, "/api/v1/review/items/"+itemID.String()+"/rating",
		map[string]string{"rating": "easy"}, uuid.New())
	req.SetPathValue("id", itemID.String())
	rec := httptest.NewRecorder()

	h.SubmitRating(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAnalytics_ForbiddenForStudents(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(&reviewServiceMock{}, 20, testLogger())

	req := newStudentRequest(t, http.MethodGet, "/api/v1/review/analytics", nil, uuid.New())
	rec := httptest.NewRecorder()

	h.Analytics(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAnalytics_Teacher(t *testing.T) {
	t.Parallel()

	svc := &reviewServiceMock{
		analyticsFn: func(context.Context) (domain.ReviewAnalytics, error) {
			return domain.ReviewAnalytics{
				DueNow:              12,
				CompletedToday:      40,
				MasteredCount:       7,
				TotalReviewItems:    200,
				ActiveStudentsToday: 5,
			}, nil
		},
	}
	h := NewReviewHandler(svc, 20, testLogger())

	req := newAuthedRequest(t, http.MethodGet, "/api/v1/review/analytics", nil, uuid.New(), auth.RoleTeacher)
	rec := httptest.NewRecorder()

	h.Analytics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp analyticsResponse
	decodeJSONBody(t, rec, &resp)
	if resp.DueNow != 12 || resp.ActiveStudentsToday != 5 {
		t.Errorf("analytics = %+v", resp)
	}
}
