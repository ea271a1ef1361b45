package collect

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// nearDuplicateThreshold is the combined similarity above which an entry is
// discounted as a near duplicate of another student's entry.
const nearDuplicateThreshold = 0.86

// Uniqueness is the outcome of the duplicate check for one new entry.
type Uniqueness struct {
	Tier          domain.UniquenessTier
	MaxSimilarity float64
	Points        int
}

// evaluateUniqueness classifies a new entry against other students'
// collections and prices it:
//
//	unique         full base points
//	near_duplicate half base points, minimum 1
//	duplicate      zero points
//
// The check degrades, never blocks: any storage failure downgrades to
// "unique" so a broken index cannot stop students from collecting.
func (s *Service) evaluateUniqueness(ctx context.Context, studentID uuid.UUID, normalized string, basePoints int) Uniqueness {
	if normalized == "" {
		return Uniqueness{Tier: domain.TierUnique, Points: basePoints}
	}

	exactChecked := false
	exists, err := s.entries.ExistsNormalized(ctx, normalized, studentID)
	switch {
	case err == nil:
		if exists {
			return Uniqueness{Tier: domain.TierDuplicate, MaxSimilarity: 1, Points: 0}
		}
		exactChecked = true
	case errors.Is(err, domain.ErrUnavailable):
		// Old schema without text_normalized; the scan below covers
		// exact matches too.
	default:
		s.log.WarnContext(ctx, "uniqueness exact check failed", slog.String("error", err.Error()))
		return Uniqueness{Tier: domain.TierUnique, Points: basePoints}
	}

	texts, preNormalized, err := s.entries.RecentTexts(ctx, studentID, s.scanLimit)
	if err != nil {
		s.log.WarnContext(ctx, "uniqueness scan failed", slog.String("error", err.Error()))
		return Uniqueness{Tier: domain.TierUnique, Points: basePoints}
	}

	maxSimilarity := 0.0
	for _, text := range texts {
		other := text
		if !preNormalized {
			other = domain.NormalizeForMatch(text)
		}
		if other == "" {
			continue
		}
		if other == normalized {
			if !exactChecked {
				return Uniqueness{Tier: domain.TierDuplicate, MaxSimilarity: 1, Points: 0}
			}
			continue
		}
		if sim := stringSimilarity(normalized, other); sim > maxSimilarity {
			maxSimilarity = sim
		}
	}

	if maxSimilarity >= nearDuplicateThreshold {
		discounted := int(math.Round(float64(basePoints) * 0.5))
		if discounted < 1 {
			discounted = 1
		}
		return Uniqueness{Tier: domain.TierNearDuplicate, MaxSimilarity: maxSimilarity, Points: discounted}
	}
	return Uniqueness{Tier: domain.TierUnique, MaxSimilarity: maxSimilarity, Points: basePoints}
}
