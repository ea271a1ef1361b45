package collect

import (
	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

// CollectResult is everything a single collection earned: the stored entry,
// its uniqueness pricing, the base and context-bonus awards, and the daily
// hook outcome (vocabulary only).
type CollectResult struct {
	Entry        *domain.Entry
	Uniqueness   Uniqueness
	Award        *points.AwardResult
	Context      ContextScore
	ContextAward *points.AwardResult
	DailyHook    *DailyHookResult
}

// TotalAwarded sums every point this collection actually paid out.
func (r *CollectResult) TotalAwarded() int {
	total := 0
	if r.Award != nil {
		total += r.Award.AwardedPoints
	}
	if r.ContextAward != nil {
		total += r.ContextAward.AwardedPoints
	}
	if r.DailyHook != nil {
		total += r.DailyHook.BonusPoints
	}
	return total
}
