package points

import "math"

// LevelInfo describes where a point total sits on the level curve.
type LevelInfo struct {
	Level           int
	Title           string
	MinPoints       int
	NextMinPoints   *int
	ProgressPercent int
	PointsIntoLevel int
	PointsToNext    *int
}

type tier struct {
	minPoints int
	title     string
}

// The curve is fixed: level N+1 always costs more than level N, and the top
// tier has no upper bound.
var levelTiers = []tier{
	{0, "Starter"},
	{120, "Word Scout"},
	{280, "Phrase Builder"},
	{520, "Context Rider"},
	{860, "Fluency Challenger"},
	{1300, "League Climber"},
	{1850, "Lexi Captain"},
	{2500, "Master Linguist"},
}

// GetLevelInfo maps a point total onto the level curve. Negative totals are
// treated as zero.
func GetLevelInfo(points int) LevelInfo {
	if points < 0 {
		points = 0
	}

	idx := 0
	for i, t := range levelTiers {
		if points >= t.minPoints {
			idx = i
		}
	}

	current := levelTiers[idx]
	info := LevelInfo{
		Level:           idx + 1,
		Title:           current.title,
		MinPoints:       current.minPoints,
		PointsIntoLevel: points - current.minPoints,
		ProgressPercent: 100,
	}

	if idx+1 < len(levelTiers) {
		next := levelTiers[idx+1]
		info.NextMinPoints = &next.minPoints
		toNext := next.minPoints - points
		if toNext < 0 {
			toNext = 0
		}
		info.PointsToNext = &toNext

		span := next.minPoints - current.minPoints
		if span < 1 {
			span = 1
		}
		percent := int(math.Round(float64(info.PointsIntoLevel) / float64(span) * 100))
		if percent > 100 {
			percent = 100
		}
		info.ProgressPercent = percent
	}

	return info
}
