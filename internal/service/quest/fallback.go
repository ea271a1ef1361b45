package quest

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// fallbackQuests is the built-in weekly set shown when no quests are
// configured. IDs derive from the title so they stay stable.
func fallbackQuests() []domain.Quest {
	builtin := []struct {
		title, description string
		metric             domain.ChallengeMetric
		target, reward     int
	}{
		{"Word Hunter", "Collect 5 new vocabulary words this week.", domain.MetricWords, 5, 40},
		{"Expression Explorer", "Collect 3 new expressions this week.", domain.MetricExpressions, 3, 40},
		{"Consistency Sprint", "Keep a 3-day review streak going.", domain.MetricStreak, 3, 50},
	}

	quests := make([]domain.Quest, 0, len(builtin))
	for _, q := range builtin {
		quests = append(quests, domain.Quest{
			ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("quest:"+q.title)),
			Title:        q.title,
			Description:  q.description,
			Metric:       q.metric,
			TargetValue:  q.target,
			RewardPoints: q.reward,
			IsActive:     true,
		})
	}
	return quests
}

// fallbackDailyChallenge is the built-in daily challenge for days without a
// scheduled one.
func fallbackDailyChallenge(date time.Time) domain.DailyChallenge {
	return domain.DailyChallenge{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte("daily:"+date.Format("2006-01-02"))),
		Title:         "Context Builder",
		Description:   "Write one original sentence using a new vocabulary word.",
		Metric:        domain.MetricWords,
		TargetValue:   1,
		RewardPoints:  20,
		ChallengeDate: date,
		IsActive:      true,
	}
}
