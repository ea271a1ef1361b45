package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/badge"
)

type badgeSyncService interface {
	Sync(ctx context.Context, studentID uuid.UUID, metrics domain.StudentMetrics) (*badge.SyncResult, error)
}

type metricsService interface {
	Metrics(ctx context.Context, studentID uuid.UUID) (domain.StudentMetrics, error)
}

// BadgeHandler serves the badge endpoints. Every read re-runs the evaluator,
// so a GET can unlock badges and pay rewards.
type BadgeHandler struct {
	badges  badgeSyncService
	metrics metricsService
	log     *slog.Logger
}

// NewBadgeHandler creates a BadgeHandler.
func NewBadgeHandler(badges badgeSyncService, metrics metricsService, logger *slog.Logger) *BadgeHandler {
	return &BadgeHandler{
		badges:  badges,
		metrics: metrics,
		log:     logger.With("handler", "badge"),
	}
}

type badgeSyncResponse struct {
	Badges        []badgeDTO `json:"badges"`
	Unlocked      []badgeDTO `json:"unlocked"`
	AwardedPoints int        `json:"awardedPoints"`
	FallbackMode  bool       `json:"fallbackMode"`
}

// List handles GET /api/v1/badges.
func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	metrics, err := h.metrics.Metrics(r.Context(), studentID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	result, err := h.badges.Sync(r.Context(), studentID, metrics)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, badgeSyncResponse{
		Badges:        toBadgeDTOs(result.Badges),
		Unlocked:      toBadgeDTOs(result.Unlocked),
		AwardedPoints: result.AwardedPoints,
		FallbackMode:  result.FallbackMode,
	})
}
