package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/service/student"
)

type studentService interface {
	Overview(ctx context.Context, studentID uuid.UUID) (*student.Overview, error)
}

// StudentHandler serves the student dashboard endpoints.
type StudentHandler struct {
	svc studentService
	log *slog.Logger
}

// NewStudentHandler creates a StudentHandler.
func NewStudentHandler(svc studentService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{svc: svc, log: logger.With("handler", "student")}
}

type overviewResponse struct {
	Profile struct {
		ID        string  `json:"id"`
		Username  string  `json:"username"`
		Role      string  `json:"role"`
		Points    int     `json:"points"`
		Streak    int     `json:"streak"`
		AvatarURL *string `json:"avatarUrl,omitempty"`
	} `json:"profile"`
	Metrics struct {
		Points               int `json:"points"`
		Streak               int `json:"streak"`
		WordsCollected       int `json:"wordsCollected"`
		ExpressionsCollected int `json:"expressionsCollected"`
	} `json:"metrics"`
	Level levelDTO `json:"level"`
}

// Overview handles GET /api/v1/me/overview.
func (h *StudentHandler) Overview(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireStudent(w, r)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(r.Context(), studentID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	var resp overviewResponse
	resp.Profile.ID = overview.Profile.ID.String()
	resp.Profile.Username = overview.Profile.Username
	resp.Profile.Role = string(overview.Profile.Role)
	resp.Profile.Points = overview.Profile.Points
	resp.Profile.Streak = overview.Profile.Streak
	resp.Profile.AvatarURL = overview.Profile.AvatarURL
	resp.Metrics.Points = overview.Metrics.Points
	resp.Metrics.Streak = overview.Metrics.Streak
	resp.Metrics.WordsCollected = overview.Metrics.WordsCollected
	resp.Metrics.ExpressionsCollected = overview.Metrics.ExpressionsCollected
	resp.Level = toLevelDTO(overview.Level)

	writeJSON(w, http.StatusOK, resp)
}
