package domain

import (
	"time"

	"github.com/google/uuid"
)

// BadgeDefinition is a metric-threshold achievement. Definitions are
// teacher/system-configured; when the backing table is absent the evaluator
// falls back to a fixed built-in set.
type BadgeDefinition struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	Description  string
	Icon         string
	Color        string
	Metric       ChallengeMetric
	Target       int
	RewardPoints int
	IsActive     bool
	CreatedAt    time.Time
}

// BadgeProgress is the per-(student, badge) state row. Unlocked is
// monotonic: once true it never reverts, and AwardedPoints is set exactly
// once at first unlock.
type BadgeProgress struct {
	BadgeID       uuid.UUID
	StudentID     uuid.UUID
	ProgressValue int
	Unlocked      bool
	UnlockedAt    *time.Time
	AwardedPoints int
}

// StudentBadge is the presentation shape joining a definition with the
// student's progress.
type StudentBadge struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	Description  string
	Icon         string
	Color        string
	Target       int
	Progress     int
	Unlocked     bool
	RewardPoints int
}
