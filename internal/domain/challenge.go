package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyChallenge is a one-day target published by a teacher, or the built-in
// fallback when none is scheduled.
type DailyChallenge struct {
	ID            uuid.UUID
	CreatedBy     *uuid.UUID
	Title         string
	Description   string
	Metric        ChallengeMetric
	TargetValue   int
	RewardPoints  int
	ChallengeDate time.Time // date-only, UTC
	IsActive      bool
}

// ChallengeClaim marks a student's one-time daily-hook bonus for a
// challenge. Unique on (ChallengeID, StudentID).
type ChallengeClaim struct {
	ID            uuid.UUID
	ChallengeID   uuid.UUID
	StudentID     uuid.UUID
	EntryID       uuid.UUID
	PointsAwarded int
	CreatedAt     time.Time
}

// Quest is a date-ranged target, usually weekly.
type Quest struct {
	ID           uuid.UUID
	CreatedBy    *uuid.UUID
	Title        string
	Description  string
	Metric       ChallengeMetric
	TargetValue  int
	RewardPoints int
	StartDate    *time.Time
	EndDate      *time.Time
	IsActive     bool
	CreatedAt    time.Time
}

// QuestProgress is the computed completion state of one quest for one
// student. Never persisted; recomputed on every read.
type QuestProgress struct {
	ID                uuid.UUID
	Title             string
	Description       string
	RewardPoints      int
	TargetValue       int
	CurrentValue      int
	CompletionPercent int
	IsCompleted       bool
}
