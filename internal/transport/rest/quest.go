package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

type questService interface {
	ActiveQuests(ctx context.Context, studentID uuid.UUID) ([]domain.QuestProgress, error)
	TodayChallenge(ctx context.Context) (*domain.DailyChallenge, error)
}

// QuestHandler serves quest and daily-challenge endpoints.
type QuestHandler struct {
	svc questService
	log *slog.Logger
}

// NewQuestHandler creates a QuestHandler.
func NewQuestHandler(svc questService, logger *slog.Logger) *QuestHandler {
	return &QuestHandler{svc: svc, log: logger.With("handler", "quest")}
}

type questProgressDTO struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	RewardPoints      int    `json:"rewardPoints"`
	TargetValue       int    `json:"targetValue"`
	CurrentValue      int    `json:"currentValue"`
	CompletionPercent int    `json:"completionPercent"`
	IsCompleted       bool   `json:"isCompleted"`
}

// Active handles GET /api/v1/quests.
func (h *QuestHandler) Active(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	quests, err := h.svc.ActiveQuests(r.Context(), studentID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]questProgressDTO, 0, len(quests))
	for _, q := range quests {
		out = append(out, questProgressDTO{
			ID:                q.ID.String(),
			Title:             q.Title,
			Description:       q.Description,
			RewardPoints:      q.RewardPoints,
			TargetValue:       q.TargetValue,
			CurrentValue:      q.CurrentValue,
			CompletionPercent: q.CompletionPercent,
			IsCompleted:       q.IsCompleted,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"quests": out})
}

// Today handles GET /api/v1/challenges/today.
func (h *QuestHandler) Today(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.svc.TodayChallenge(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChallengeDTO(challenge))
}
