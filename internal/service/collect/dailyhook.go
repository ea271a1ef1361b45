package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// DailyHookResult reports whether a collected word hit today's challenge and
// what the claim paid out.
type DailyHookResult struct {
	Matched        bool
	AlreadyClaimed bool
	ChallengeID    uuid.UUID
	BonusPoints    int
}

var quotedPhraseRE = regexp.MustCompile(`"([^"]+)"`)

// dailyHookCandidates extracts the normalized target phrases a challenge
// advertises: the full title, the full description, the part of the title
// after a colon, and every double-quoted phrase in either field.
func dailyHookCandidates(title, description string) []string {
	var raw []string
	raw = append(raw, title, description)

	if parts := strings.SplitN(title, ":", 2); len(parts) == 2 {
		raw = append(raw, parts[1])
	}
	for _, m := range quotedPhraseRE.FindAllStringSubmatch(title+" "+description, -1) {
		raw = append(raw, m[1])
	}

	seen := make(map[string]struct{}, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, r := range raw {
		normalized := domain.NormalizeForMatch(r)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		candidates = append(candidates, normalized)
	}
	return candidates
}

// claimDailyHook awards the daily-challenge bonus when a freshly collected
// vocabulary word is one of today's advertised targets. Word-metric
// challenges only; each student claims a given challenge at most once.
//
// Returns nil when there is no applicable challenge. Claim-table
// unavailability and repeat claims both report the match without a bonus.
func (s *Service) claimDailyHook(ctx context.Context, studentID uuid.UUID, e *domain.Entry) (*DailyHookResult, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	challenge, err := s.challenges.ForDate(ctx, today)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUnavailable) {
			s.log.WarnContext(ctx, "daily challenge lookup failed", slog.String("error", err.Error()))
		}
		return nil, nil
	}
	if challenge.Metric != domain.MetricWords {
		return nil, nil
	}

	matched := false
	for _, candidate := range dailyHookCandidates(challenge.Title, challenge.Description) {
		if candidate == e.TextNormalized {
			matched = true
			break
		}
	}
	if !matched {
		return &DailyHookResult{ChallengeID: challenge.ID}, nil
	}

	claim := &domain.ChallengeClaim{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		StudentID:   studentID,
		EntryID:     e.ID,
		CreatedAt:   s.now(),
	}
	if err := s.challenges.InsertClaim(ctx, claim); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			return &DailyHookResult{Matched: true, AlreadyClaimed: true, ChallengeID: challenge.ID}, nil
		case errors.Is(err, domain.ErrUnavailable):
			return &DailyHookResult{Matched: true, ChallengeID: challenge.ID}, nil
		default:
			return nil, fmt.Errorf("insert challenge claim: %w", err)
		}
	}

	award, err := s.awards.Award(ctx, studentID, challenge.RewardPoints)
	if err != nil {
		if delErr := s.challenges.DeleteClaim(ctx, claim.ID); delErr != nil {
			s.log.ErrorContext(ctx, "claim rollback failed",
				slog.String("claim_id", claim.ID.String()),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("award daily hook bonus: %w", err)
	}

	if err := s.challenges.UpdateClaimPoints(ctx, claim.ID, award.AwardedPoints); err != nil {
		s.log.WarnContext(ctx, "claim points update failed",
			slog.String("claim_id", claim.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return &DailyHookResult{
		Matched:     true,
		ChallengeID: challenge.ID,
		BonusPoints: award.AwardedPoints,
	}, nil
}
