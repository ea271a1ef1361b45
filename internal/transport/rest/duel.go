package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/duel"
)

type duelService interface {
	Create(ctx context.Context, creatorID uuid.UUID) (*domain.DuelState, error)
	Join(ctx context.Context, duelID, studentID uuid.UUID) error
	Start(ctx context.Context, duelID, studentID uuid.UUID) error
	SubmitAnswer(ctx context.Context, duelID, studentID uuid.UUID, in duel.AnswerInput) (*duel.AnswerResult, error)
	FinalizeIfReady(ctx context.Context, duelID, requesterID uuid.UUID) (bool, error)
	GetState(ctx context.Context, duelID uuid.UUID) (*domain.DuelState, error)
	Joinable(ctx context.Context, studentID uuid.UUID) ([]domain.Duel, error)
	History(ctx context.Context, studentID uuid.UUID, limit int) ([]domain.DuelHistoryItem, error)
}

// DuelHandler serves the duel endpoints. Clients poll State and call
// Finalize on each refresh; the engine never pushes.
type DuelHandler struct {
	svc duelService
	log *slog.Logger
}

// NewDuelHandler creates a DuelHandler.
func NewDuelHandler(svc duelService, logger *slog.Logger) *DuelHandler {
	return &DuelHandler{svc: svc, log: logger.With("handler", "duel")}
}

// Create handles POST /api/v1/duels.
func (h *DuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	state, err := h.svc.Create(r.Context(), studentID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDuelStateDTO(state))
}

// Join handles POST /api/v1/duels/{id}/join.
func (h *DuelHandler) Join(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}
	duelID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Join(r.Context(), duelID, studentID); err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// Start handles POST /api/v1/duels/{id}/start.
func (h *DuelHandler) Start(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}
	duelID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Start(r.Context(), duelID, studentID); err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

type answerRequest struct {
	RoundID        string `json:"roundId"`
	SelectedAnswer string `json:"selectedAnswer"`
	ResponseTimeMs int    `json:"responseTimeMs"`
}

type answerResponse struct {
	IsCorrect    bool      `json:"isCorrect"`
	PointsEarned int       `json:"pointsEarned"`
	Award        *awardDTO `json:"award,omitempty"`
}

// Answer handles POST /api/v1/duels/{id}/answers.
func (h *DuelHandler) Answer(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}
	duelID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req answerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	roundID, err := uuid.Parse(req.RoundID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid roundId")
		return
	}

	result, err := h.svc.SubmitAnswer(r.Context(), duelID, studentID, duel.AnswerInput{
		RoundID:        roundID,
		SelectedAnswer: req.SelectedAnswer,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		IsCorrect:    result.Answer.IsCorrect,
		PointsEarned: result.Answer.PointsEarned,
		Award:        toAwardDTO(result.Award),
	})
}

// Finalize handles POST /api/v1/duels/{id}/finalize.
func (h *DuelHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}
	duelID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	finished, err := h.svc.FinalizeIfReady(r.Context(), duelID, studentID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"finished": finished})
}

// State handles GET /api/v1/duels/{id}.
func (h *DuelHandler) State(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStudent(w, r); !ok {
		return
	}
	duelID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	state, err := h.svc.GetState(r.Context(), duelID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDuelStateDTO(state))
}

// Joinable handles GET /api/v1/duels/joinable.
func (h *DuelHandler) Joinable(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	duels, err := h.svc.Joinable(r.Context(), studentID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]duelDTO, 0, len(duels))
	for i := range duels {
		out = append(out, toDuelDTO(&duels[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"duels": out})
}

type duelHistoryDTO struct {
	Duel           duelDTO `json:"duel"`
	TotalScore     int     `json:"totalScore"`
	CorrectAnswers int     `json:"correctAnswers"`
	Won            bool    `json:"won"`
}

// History handles GET /api/v1/duels/history.
func (h *DuelHandler) History(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.svc.History(r.Context(), studentID, limit)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]duelHistoryDTO, 0, len(items))
	for _, item := range items {
		row := duelHistoryDTO{
			TotalScore:     item.Participant.TotalScore,
			CorrectAnswers: item.Participant.CorrectAnswers,
		}
		if item.Duel != nil {
			row.Duel = toDuelDTO(item.Duel)
			row.Won = item.Duel.WinnerID != nil && *item.Duel.WinnerID == studentID
		}
		out = append(out, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{"duels": out})
}
