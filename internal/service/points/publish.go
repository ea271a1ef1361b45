package points

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

const maxBoostTitleLen = 200

// PublishBoostInput is a teacher's request to open a boost window.
type PublishBoostInput struct {
	Title       string
	Description *string
	Type        domain.BoostType
	Multiplier  float64
	FlatBonus   int
	StartsAt    time.Time
	EndsAt      time.Time
}

// PublishBoost stores a new boost window. It becomes the active boost for
// awards inside its window (latest created wins on overlap).
func (s *Service) PublishBoost(ctx context.Context, teacherID uuid.UUID, in PublishBoostInput) (*domain.Boost, error) {
	if teacherID == uuid.Nil {
		return nil, domain.NewValidationError("teacher_id", "required")
	}

	var errs []domain.FieldError

	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	case len(in.Title) > maxBoostTitleLen:
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	switch in.Type {
	case domain.BoostDoubleXP:
		if in.Multiplier < 1 {
			errs = append(errs, domain.FieldError{Field: "multiplier", Message: "must be at least 1"})
		}
	case domain.BoostBonusFlat:
		if in.FlatBonus <= 0 {
			errs = append(errs, domain.FieldError{Field: "flat_bonus", Message: "must be positive"})
		}
	default:
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be double_xp or bonus_flat"})
	}

	if !in.EndsAt.After(in.StartsAt) {
		errs = append(errs, domain.FieldError{Field: "ends_at", Message: "must be after starts_at"})
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	b := &domain.Boost{
		ID:          uuid.New(),
		CreatedBy:   teacherID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Multiplier:  in.Multiplier,
		FlatBonus:   in.FlatBonus,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if err := s.boosts.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create boost: %w", err)
	}

	s.log.InfoContext(ctx, "boost published",
		slog.String("boost_id", b.ID.String()),
		slog.String("teacher_id", teacherID.String()),
		slog.String("type", string(b.Type)),
	)
	return b, nil
}
