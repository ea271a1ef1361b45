package points

import (
	"math"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// ApplyBoost transforms a base point value through the active boost.
// A nil boost is the identity. Results never go below zero.
func ApplyBoost(base int, boost *domain.Boost) int {
	if boost == nil {
		return base
	}

	var result int
	switch boost.Type {
	case domain.BoostDoubleXP:
		result = int(math.Round(float64(base) * boost.Multiplier))
	case domain.BoostBonusFlat:
		result = base + boost.FlatBonus
	default:
		result = base
	}

	if result < 0 {
		return 0
	}
	return result
}
