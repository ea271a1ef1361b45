package review

import "time"

// streakWindow bounds how many review timestamps the streak recomputation
// looks at. 365 newest reviews cap the streak at a year.
const streakWindow = 365

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// consecutiveStreak counts consecutive reviewed days ending today (UTC).
// A day without a review breaks the chain; no review today means zero.
func consecutiveStreak(reviewedAt []time.Time, today time.Time) int {
	if len(reviewedAt) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(reviewedAt))
	for _, t := range reviewedAt {
		days[dayKey(t)] = struct{}{}
	}

	streak := 0
	cursor := today.UTC()
	for {
		if _, ok := days[dayKey(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}
