package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
	"github.com/lexleague/lexleague-backend/internal/transport/middleware"
)

type boostService interface {
	PublishBoost(ctx context.Context, teacherID uuid.UUID, in points.PublishBoostInput) (*domain.Boost, error)
}

// BoostHandler serves the teacher boost endpoints.
type BoostHandler struct {
	svc boostService
	log *slog.Logger
}

// NewBoostHandler creates a BoostHandler.
func NewBoostHandler(svc boostService, logger *slog.Logger) *BoostHandler {
	return &BoostHandler{svc: svc, log: logger.With("handler", "boost")}
}

type publishBoostRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	Multiplier  float64 `json:"multiplier,omitempty"`
	FlatBonus   int     `json:"flatBonus,omitempty"`
	StartsAt    string  `json:"startsAt"`
	EndsAt      string  `json:"endsAt"`
}

type boostDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	Multiplier  float64 `json:"multiplier,omitempty"`
	FlatBonus   int     `json:"flatBonus,omitempty"`
	StartsAt    string  `json:"startsAt"`
	EndsAt      string  `json:"endsAt"`
	IsActive    bool    `json:"isActive"`
}

func toBoostDTO(b *domain.Boost) boostDTO {
	return boostDTO{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		Type:        string(b.Type),
		Multiplier:  b.Multiplier,
		FlatBonus:   b.FlatBonus,
		StartsAt:    b.StartsAt.Format(time.RFC3339),
		EndsAt:      b.EndsAt.Format(time.RFC3339),
		IsActive:    b.IsActive,
	}
}

// Publish handles POST /api/v1/boosts. Teacher role required.
func (h *BoostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := requireStudent(w, r)
	if !ok {
		return
	}
	if err := middleware.RequireTeacher(r.Context()); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	var req publishBoostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startsAt")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endsAt")
		return
	}

	boost, err := h.svc.PublishBoost(r.Context(), teacherID, points.PublishBoostInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.BoostType(req.Type),
		Multiplier:  req.Multiplier,
		FlatBonus:   req.FlatBonus,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBoostDTO(boost))
}
