package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoostType selects how a boost transforms a base point value.
type BoostType string

const (
	BoostDoubleXP  BoostType = "double_xp"
	BoostBonusFlat BoostType = "bonus_flat"
)

// Boost is a teacher-defined, time-windowed point modifier. At award time the
// lookup selects the most recently created active boost whose window contains
// now. StartsAt < EndsAt always holds, and a double_xp boost never has a
// multiplier below 1, so a boost cannot reduce an award.
type Boost struct {
	ID          uuid.UUID
	CreatedBy   uuid.UUID
	Title       string
	Description *string
	Type        BoostType
	Multiplier  float64
	FlatBonus   int
	StartsAt    time.Time
	EndsAt      time.Time
	IsActive    bool
	CreatedAt   time.Time
}
