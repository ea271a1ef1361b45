package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType discriminates vocabulary words from expressions.
type EntryType string

const (
	EntryTypeVocabulary EntryType = "vocabulary"
	EntryTypeExpression EntryType = "expression"
)

// IsValid reports whether the entry type is one of the known values.
func (t EntryType) IsValid() bool {
	return t == EntryTypeVocabulary || t == EntryTypeExpression
}

// BasePoints returns the base point value a new entry of this type is worth
// before uniqueness scaling and boosts.
func (t EntryType) BasePoints() int {
	if t == EntryTypeExpression {
		return 12
	}
	return 10
}

// Entry is a collected vocabulary word or expression. It is owned by exactly
// one student and its text/definition are immutable after creation.
//
// TextNormalized is the match form (NormalizeForMatch) used for duplicate
// comparison across students.
type Entry struct {
	ID             uuid.UUID
	StudentID      uuid.UUID
	MaterialID     *uuid.UUID
	Type           EntryType
	Text           string
	TextNormalized string
	Definition     string
	Example        string
	Category       *string
	ImageURL       *string
	CreatedAt      time.Time
}

// EntryFilter narrows collection listings. Nil fields mean "no filter";
// Limit <= 0 means "no limit".
type EntryFilter struct {
	Type     *EntryType
	Category *string
	Limit    int
}

// UniquenessTier classifies a new entry relative to other students' entries.
type UniquenessTier string

const (
	TierUnique        UniquenessTier = "unique"
	TierNearDuplicate UniquenessTier = "near_duplicate"
	TierDuplicate     UniquenessTier = "duplicate"
)
