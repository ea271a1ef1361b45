package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the learning state of a review item.
type ReviewStatus string

const (
	ReviewStatusLearning ReviewStatus = "learning"
	ReviewStatusMastered ReviewStatus = "mastered"
)

// ReviewRating is the binary recall grade a student submits.
type ReviewRating string

const (
	RatingEasy ReviewRating = "easy"
	RatingHard ReviewRating = "hard"
)

// IsValid reports whether the rating is one of the known values.
func (r ReviewRating) IsValid() bool {
	return r == RatingEasy || r == RatingHard
}

// BasePoints returns the base point value of a completed review.
func (r ReviewRating) BasePoints() int {
	if r == RatingEasy {
		return 6
	}
	return 2
}

// ReviewItem is the spaced-repetition card derived from a collected entry.
// One row per (student, entry); creation is insert-if-absent. Only the
// scheduler mutates it, and DueAt moves strictly forward on every mutation.
type ReviewItem struct {
	ID             uuid.UUID
	StudentID      uuid.UUID
	EntryID        uuid.UUID
	EntryType      EntryType
	Prompt         string
	Answer         string
	ContextHint    *string
	Status         ReviewStatus
	DueAt          time.Time
	LastReviewedAt *time.Time
	IntervalDays   int
	EaseFactor     float64
	Repetitions    int
	CreatedAt      time.Time
}

// ReviewAnalytics is the teacher-facing aggregate over all review items.
// All fields degrade to zero when the backing table is unavailable.
type ReviewAnalytics struct {
	DueNow              int
	CompletedToday      int
	MasteredCount       int
	TotalReviewItems    int
	ActiveStudentsToday int
}
