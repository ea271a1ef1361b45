package badge

import (
	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// builtinBadges is the fixed badge set used when no definitions are
// configured or the definitions table is unavailable. IDs are derived from
// the slug so they stay stable across processes.
func builtinBadges() []domain.BadgeDefinition {
	builtin := []struct {
		slug, name, description, icon, color string
		metric                               domain.ChallengeMetric
		target, reward                       int
	}{
		{"first-steps", "First Steps", "Collect your first 5 vocabulary words.", "book", "blue", domain.MetricWords, 5, 20},
		{"phrase-finder", "Phrase Finder", "Collect 5 expressions.", "chat", "cyan", domain.MetricExpressions, 5, 20},
		{"streak-starter", "Streak Starter", "Review on 3 days in a row.", "flame", "amber", domain.MetricStreak, 3, 30},
		{"point-racer", "Point Racer", "Reach 150 points.", "target", "emerald", domain.MetricPoints, 150, 40},
		{"vocab-sprinter", "Vocab Sprinter", "Collect 20 vocabulary words.", "spark", "violet", domain.MetricWords, 20, 60},
		{"league-contender", "League Contender", "Reach 400 points.", "trophy", "rose", domain.MetricPoints, 400, 80},
	}

	defs := make([]domain.BadgeDefinition, 0, len(builtin))
	for _, b := range builtin {
		defs = append(defs, domain.BadgeDefinition{
			ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("badge:"+b.slug)),
			Slug:         b.slug,
			Name:         b.name,
			Description:  b.description,
			Icon:         b.icon,
			Color:        b.color,
			Metric:       b.metric,
			Target:       b.target,
			RewardPoints: b.reward,
			IsActive:     true,
		})
	}
	return defs
}
