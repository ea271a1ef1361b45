package review

import (
	"math"
	"time"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

const (
	minEaseFactor = 1.3
	maxEaseFactor = 3.5

	// An item is mastered after this many consecutive easy recalls.
	masteryRepetitions = 5
)

// nextSchedule computes the item's state after one rating. Pure: the caller
// persists the result.
//
// Hard resets the repetition count and schedules for tomorrow, easing the
// factor down. Easy walks the 1, 3, interval*ease ladder and eases the
// factor up. DueAt always moves forward.
func nextSchedule(item domain.ReviewItem, rating domain.ReviewRating, now time.Time) domain.ReviewItem {
	next := item

	if rating == domain.RatingHard {
		next.Repetitions = 0
		next.IntervalDays = 1
		next.EaseFactor = math.Max(minEaseFactor, item.EaseFactor-0.2)
		next.Status = domain.ReviewStatusLearning
	} else {
		next.Repetitions = item.Repetitions + 1
		next.EaseFactor = math.Min(maxEaseFactor, item.EaseFactor+0.1)

		switch {
		case next.Repetitions <= 1:
			next.IntervalDays = 1
		case next.Repetitions == 2:
			next.IntervalDays = 3
		default:
			next.IntervalDays = int(math.Round(float64(item.IntervalDays) * next.EaseFactor))
			if next.IntervalDays < 1 {
				next.IntervalDays = 1
			}
		}

		if next.Repetitions >= masteryRepetitions {
			next.Status = domain.ReviewStatusMastered
		} else {
			next.Status = domain.ReviewStatusLearning
		}
	}

	next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	next.LastReviewedAt = &now
	return next
}
