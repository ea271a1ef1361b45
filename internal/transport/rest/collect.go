package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/collect"
)

type collectService interface {
	Collect(ctx context.Context, studentID uuid.UUID, in collect.CollectInput) (*collect.CollectResult, error)
	ListEntries(ctx context.Context, studentID uuid.UUID, f domain.EntryFilter) ([]domain.Entry, error)
}

// CollectHandler serves the collection endpoints.
type CollectHandler struct {
	svc collectService
	log *slog.Logger
}

// NewCollectHandler creates a CollectHandler.
func NewCollectHandler(svc collectService, logger *slog.Logger) *CollectHandler {
	return &CollectHandler{svc: svc, log: logger.With("handler", "collect")}
}

type collectRequest struct {
	Type       string  `json:"type"`
	Text       string  `json:"text"`
	Definition string  `json:"definition"`
	Example    string  `json:"example"`
	Category   *string `json:"category"`
	ImageURL   *string `json:"imageUrl"`
	MaterialID *string `json:"materialId"`
}

type uniquenessDTO struct {
	Tier          string  `json:"tier"`
	MaxSimilarity float64 `json:"maxSimilarity"`
	Points        int     `json:"points"`
}

type contextScoreDTO struct {
	Score       int    `json:"score"`
	Level       string `json:"level"`
	Feedback    string `json:"feedback"`
	BonusPoints int    `json:"bonusPoints"`
}

type dailyHookDTO struct {
	Matched        bool   `json:"matched"`
	AlreadyClaimed bool   `json:"alreadyClaimed"`
	ChallengeID    string `json:"challengeId"`
	BonusPoints    int    `json:"bonusPoints"`
}

type collectResponse struct {
	Entry        entryDTO         `json:"entry"`
	Uniqueness   uniquenessDTO    `json:"uniqueness"`
	Award        *awardDTO        `json:"award,omitempty"`
	Context      *contextScoreDTO `json:"context,omitempty"`
	ContextAward *awardDTO        `json:"contextAward,omitempty"`
	DailyHook    *dailyHookDTO    `json:"dailyHook,omitempty"`
	TotalAwarded int              `json:"totalAwarded"`
}

// Create handles POST /api/v1/entries.
func (h *CollectHandler) Create(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var req collectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := collect.CollectInput{
		Type:       domain.EntryType(req.Type),
		Text:       req.Text,
		Definition: req.Definition,
		Example:    req.Example,
		Category:   req.Category,
		ImageURL:   req.ImageURL,
	}
	if req.MaterialID != nil {
		id, err := uuid.Parse(*req.MaterialID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid materialId")
			return
		}
		in.MaterialID = &id
	}

	result, err := h.svc.Collect(r.Context(), studentID, in)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCollectResponse(result))
}

// List handles GET /api/v1/entries.
func (h *CollectHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var f domain.EntryFilter
	if v := r.URL.Query().Get("type"); v != "" {
		t := domain.EntryType(v)
		if !t.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid type")
			return
		}
		f.Type = &t
	}
	if v := r.URL.Query().Get("category"); v != "" {
		f.Category = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = n
	}

	entries, err := h.svc.ListEntries(r.Context(), studentID, f)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := make([]entryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryDTO(&entries[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func toCollectResponse(result *collect.CollectResult) collectResponse {
	resp := collectResponse{
		Entry: toEntryDTO(result.Entry),
		Uniqueness: uniquenessDTO{
			Tier:          string(result.Uniqueness.Tier),
			MaxSimilarity: result.Uniqueness.MaxSimilarity,
			Points:        result.Uniqueness.Points,
		},
		Award:        toAwardDTO(result.Award),
		ContextAward: toAwardDTO(result.ContextAward),
		TotalAwarded: result.TotalAwarded(),
	}
	if result.Entry.Example != "" {
		resp.Context = &contextScoreDTO{
			Score:       result.Context.Score,
			Level:       string(result.Context.Level),
			Feedback:    result.Context.Feedback,
			BonusPoints: result.Context.BonusPoints,
		}
	}
	if result.DailyHook != nil {
		resp.DailyHook = &dailyHookDTO{
			Matched:        result.DailyHook.Matched,
			AlreadyClaimed: result.DailyHook.AlreadyClaimed,
			ChallengeID:    result.DailyHook.ChallengeID.String(),
			BonusPoints:    result.DailyHook.BonusPoints,
		}
	}
	return resp
}
