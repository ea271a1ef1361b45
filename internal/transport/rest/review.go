package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/review"
	"github.com/lexleague/lexleague-backend/internal/transport/middleware"
)

type reviewService interface {
	DueItems(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.ReviewItem, error)
	SubmitRating(ctx context.Context, studentID, itemID uuid.UUID, rating domain.ReviewRating) (*review.SubmitResult, error)
	Analytics(ctx context.Context) (domain.ReviewAnalytics, error)
}

// ReviewHandler serves the spaced-repetition endpoints.
type ReviewHandler struct {
	svc      reviewService
	dueLimit int
	log      *slog.Logger
}

// NewReviewHandler creates a ReviewHandler. dueLimit caps the due queue when
// the client does not ask for a specific page size.
func NewReviewHandler(svc reviewService, dueLimit int, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, dueLimit: dueLimit, log: logger.With("handler", "review")}
}

// Due handles GET /api/v1/review/due.
func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	limit := h.dueLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.svc.DueItems(r.Context(), studentID, limit)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]reviewItemDTO, 0, len(items))
	for i := range items {
		out = append(out, toReviewItemDTO(&items[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

type ratingRequest struct {
	Rating string `json:"rating"`
}

type submitRatingResponse struct {
	Item           reviewItemDTO `json:"item"`
	Award          *awardDTO     `json:"award,omitempty"`
	Streak         int           `json:"streak"`
	UnlockedBadges []badgeDTO    `json:"unlockedBadges"`
}

// SubmitRating handles POST /api/v1/review/items/{id}/rating.
func (h *ReviewHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ratingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.SubmitRating(r.Context(), studentID, itemID, domain.ReviewRating(req.Rating))
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitRatingResponse{
		Item:           toReviewItemDTO(result.Item),
		Award:          toAwardDTO(result.Award),
		Streak:         result.Streak,
		UnlockedBadges: toBadgeDTOs(result.UnlockedBadges),
	})
}

type analyticsResponse struct {
	DueNow              int `json:"dueNow"`
	CompletedToday      int `json:"completedToday"`
	MasteredCount       int `json:"masteredCount"`
	TotalReviewItems    int `json:"totalReviewItems"`
	ActiveStudentsToday int `json:"activeStudentsToday"`
}

// Analytics handles GET /api/v1/review/analytics. Teacher only.
func (h *ReviewHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireTeacher(r.Context()); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	a, err := h.svc.Analytics(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		DueNow:              a.DueNow,
		CompletedToday:      a.CompletedToday,
		MasteredCount:       a.MasteredCount,
		TotalReviewItems:    a.TotalReviewItems,
		ActiveStudentsToday: a.ActiveStudentsToday,
	})
}
