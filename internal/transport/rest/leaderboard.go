package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/leaderboard"
	"github.com/lexleague/lexleague-backend/pkg/ctxutil"
)

type leaderboardService interface {
	Competition(ctx context.Context, currentUserID uuid.UUID) (*domain.Leaderboard, error)
	Teams(ctx context.Context) (*leaderboard.TeamBoard, error)
}

// LeaderboardHandler serves the standings endpoints. Both are public: an
// anonymous caller gets the board without a personal rank.
type LeaderboardHandler struct {
	svc leaderboardService
	log *slog.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(svc leaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, log: logger.With("handler", "leaderboard")}
}

type leaderboardEntryDTO struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	Points      int     `json:"points"`
	Words       int     `json:"words"`
	Expressions int     `json:"expressions"`
	Streak      int     `json:"streak"`
}

type leaderboardResponse struct {
	Entries             []leaderboardEntryDTO `json:"entries"`
	CurrentUserPoints   int                   `json:"currentUserPoints"`
	CurrentUserPosition *int                  `json:"currentUserPosition,omitempty"`
}

// Competition handles GET /api/v1/leaderboard.
func (h *LeaderboardHandler) Competition(w http.ResponseWriter, r *http.Request) {
	currentUserID, _ := ctxutil.UserIDFromCtx(r.Context())

	board, err := h.svc.Competition(r.Context(), currentUserID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	resp := leaderboardResponse{
		Entries:             make([]leaderboardEntryDTO, 0, len(board.Entries)),
		CurrentUserPoints:   board.CurrentUserPoints,
		CurrentUserPosition: board.CurrentUserPosition,
	}
	for _, e := range board.Entries {
		resp.Entries = append(resp.Entries, leaderboardEntryDTO{
			ID:          e.ID.String(),
			Username:    e.Username,
			AvatarURL:   e.AvatarURL,
			Points:      e.Points,
			Words:       e.Words,
			Expressions: e.Expressions,
			Streak:      e.Streak,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type teamStandingDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ColorHex  string `json:"colorHex"`
	Points    int    `json:"points"`
	Members   int    `json:"members"`
	AvgPoints int    `json:"avgPoints"`
}

type teamBoardResponse struct {
	Standings    []teamStandingDTO `json:"standings"`
	FallbackMode bool              `json:"fallbackMode"`
}

// Teams handles GET /api/v1/leaderboard/teams.
func (h *LeaderboardHandler) Teams(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Teams(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	resp := teamBoardResponse{
		Standings:    make([]teamStandingDTO, 0, len(board.Standings)),
		FallbackMode: board.FallbackMode,
	}
	for _, t := range board.Standings {
		resp.Standings = append(resp.Standings, teamStandingDTO{
			ID:        t.ID.String(),
			Name:      t.Name,
			ColorHex:  t.ColorHex,
			Points:    t.Points,
			Members:   t.Members,
			AvgPoints: t.AvgPoints,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
