package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account role stored on a profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Profile is a student or teacher account.
//
// Points are mutated exclusively through the points service (atomic SQL
// increment); Streak is overwritten exclusively by the review streak sync.
type Profile struct {
	ID        uuid.UUID
	Username  string
	Role      Role
	Points    int
	Streak    int
	AvatarURL *string
	CreatedAt time.Time
}

// StudentMetrics is the derived per-student snapshot the badge and quest
// evaluators run against. Never persisted as a unit; always recomputed.
type StudentMetrics struct {
	Points               int
	Streak               int
	WordsCollected       int
	ExpressionsCollected int
}

// ChallengeMetric names the metric a badge, quest, or daily challenge targets.
type ChallengeMetric string

const (
	MetricWords       ChallengeMetric = "words"
	MetricExpressions ChallengeMetric = "expressions"
	MetricPoints      ChallengeMetric = "points"
	MetricStreak      ChallengeMetric = "streak"
)

// IsValid reports whether the metric is one of the known values.
func (m ChallengeMetric) IsValid() bool {
	switch m {
	case MetricWords, MetricExpressions, MetricPoints, MetricStreak:
		return true
	}
	return false
}

// Value returns the metric's current value, clamped to be non-negative.
// Unknown metrics resolve to points, matching the permissive reading the
// teacher-authored definitions get elsewhere.
func (s StudentMetrics) Value(metric ChallengeMetric) int {
	var v int
	switch metric {
	case MetricWords:
		v = s.WordsCollected
	case MetricExpressions:
		v = s.ExpressionsCollected
	case MetricStreak:
		v = s.Streak
	default:
		v = s.Points
	}
	if v < 0 {
		return 0
	}
	return v
}
