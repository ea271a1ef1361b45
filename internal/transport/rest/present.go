package rest

import (
	"time"

	"github.com/lexleague/lexleague-backend/internal/domain"
	"github.com/lexleague/lexleague-backend/internal/service/points"
)

// Shared JSON shapes used by several handlers.

type levelDTO struct {
	Level           int    `json:"level"`
	Title           string `json:"title"`
	MinPoints       int    `json:"minPoints"`
	NextMinPoints   *int   `json:"nextMinPoints,omitempty"`
	ProgressPercent int    `json:"progressPercent"`
	PointsIntoLevel int    `json:"pointsIntoLevel"`
	PointsToNext    *int   `json:"pointsToNext,omitempty"`
}

func toLevelDTO(l points.LevelInfo) levelDTO {
	return levelDTO{
		Level:           l.Level,
		Title:           l.Title,
		MinPoints:       l.MinPoints,
		NextMinPoints:   l.NextMinPoints,
		ProgressPercent: l.ProgressPercent,
		PointsIntoLevel: l.PointsIntoLevel,
		PointsToNext:    l.PointsToNext,
	}
}

type awardDTO struct {
	BasePoints    int      `json:"basePoints"`
	AwardedPoints int      `json:"awardedPoints"`
	NewTotal      int      `json:"newTotal"`
	LeveledUp     bool     `json:"leveledUp"`
	NewLevel      levelDTO `json:"newLevel"`
	BoostTitle    *string  `json:"boostTitle,omitempty"`
}

func toAwardDTO(a *points.AwardResult) *awardDTO {
	if a == nil {
		return nil
	}
	dto := &awardDTO{
		BasePoints:    a.BasePoints,
		AwardedPoints: a.AwardedPoints,
		NewTotal:      a.NewTotal,
		LeveledUp:     a.LeveledUp,
		NewLevel:      toLevelDTO(a.NewLevel),
	}
	if a.Boost != nil {
		dto.BoostTitle = &a.Boost.Title
	}
	return dto
}

type entryDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Text       string    `json:"text"`
	Definition string    `json:"definition"`
	Example    string    `json:"example,omitempty"`
	Category   *string   `json:"category,omitempty"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	MaterialID *string   `json:"materialId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toEntryDTO(e *domain.Entry) entryDTO {
	dto := entryDTO{
		ID:         e.ID.String(),
		Type:       string(e.Type),
		Text:       e.Text,
		Definition: e.Definition,
		Example:    e.Example,
		Category:   e.Category,
		ImageURL:   e.ImageURL,
		CreatedAt:  e.CreatedAt,
	}
	if e.MaterialID != nil {
		s := e.MaterialID.String()
		dto.MaterialID = &s
	}
	return dto
}

type badgeDTO struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	Target       int    `json:"target"`
	Progress     int    `json:"progress"`
	Unlocked     bool   `json:"unlocked"`
	RewardPoints int    `json:"rewardPoints"`
}

func toBadgeDTOs(badges []domain.StudentBadge) []badgeDTO {
	out := make([]badgeDTO, 0, len(badges))
	for _, b := range badges {
		out = append(out, badgeDTO{
			ID:           b.ID.String(),
			Slug:         b.Slug,
			Name:         b.Name,
			Description:  b.Description,
			Icon:         b.Icon,
			Color:        b.Color,
			Target:       b.Target,
			Progress:     b.Progress,
			Unlocked:     b.Unlocked,
			RewardPoints: b.RewardPoints,
		})
	}
	return out
}

type reviewItemDTO struct {
	ID           string    `json:"id"`
	EntryID      string    `json:"entryId"`
	EntryType    string    `json:"entryType"`
	Prompt       string    `json:"prompt"`
	Answer       string    `json:"answer"`
	ContextHint  *string   `json:"contextHint,omitempty"`
	Status       string    `json:"status"`
	DueAt        time.Time `json:"dueAt"`
	IntervalDays int       `json:"intervalDays"`
	EaseFactor   float64   `json:"easeFactor"`
	Repetitions  int       `json:"repetitions"`
}

func toReviewItemDTO(item *domain.ReviewItem) reviewItemDTO {
	return reviewItemDTO{
		ID:           item.ID.String(),
		EntryID:      item.EntryID.String(),
		EntryType:    string(item.EntryType),
		Prompt:       item.Prompt,
		Answer:       item.Answer,
		ContextHint:  item.ContextHint,
		Status:       string(item.Status),
		DueAt:        item.DueAt,
		IntervalDays: item.IntervalDays,
		EaseFactor:   item.EaseFactor,
		Repetitions:  item.Repetitions,
	}
}

type duelDTO struct {
	ID         string     `json:"id"`
	CreatedBy  string     `json:"createdBy"`
	Status     string     `json:"status"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	WinnerID   *string    `json:"winnerId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toDuelDTO(d *domain.Duel) duelDTO {
	dto := duelDTO{
		ID:         d.ID.String(),
		CreatedBy:  d.CreatedBy.String(),
		Status:     string(d.Status),
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		CreatedAt:  d.CreatedAt,
	}
	if d.WinnerID != nil {
		s := d.WinnerID.String()
		dto.WinnerID = &s
	}
	return dto
}

type duelParticipantDTO struct {
	StudentID      string    `json:"studentId"`
	TotalScore     int       `json:"totalScore"`
	CorrectAnswers int       `json:"correctAnswers"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// duelRoundDTO deliberately omits the correct answer; clients learn it from
// their own answer result.
type duelRoundDTO struct {
	ID          string   `json:"id"`
	RoundNumber int      `json:"roundNumber"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
}

type duelAnswerDTO struct {
	RoundID        string `json:"roundId"`
	StudentID      string `json:"studentId"`
	SelectedAnswer string `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	ResponseTimeMs int    `json:"responseTimeMs"`
	PointsEarned   int    `json:"pointsEarned"`
}

type duelStateDTO struct {
	Duel         duelDTO              `json:"duel"`
	Participants []duelParticipantDTO `json:"participants"`
	Rounds       []duelRoundDTO       `json:"rounds"`
	Answers      []duelAnswerDTO      `json:"answers"`
}

func toDuelStateDTO(state *domain.DuelState) duelStateDTO {
	dto := duelStateDTO{
		Duel:         toDuelDTO(&state.Duel),
		Participants: make([]duelParticipantDTO, 0, len(state.Participants)),
		Rounds:       make([]duelRoundDTO, 0, len(state.Rounds)),
		Answers:      make([]duelAnswerDTO, 0, len(state.Answers)),
	}
	for _, p := range state.Participants {
		dto.Participants = append(dto.Participants, duelParticipantDTO{
			StudentID:      p.StudentID.String(),
			TotalScore:     p.TotalScore,
			CorrectAnswers: p.CorrectAnswers,
			JoinedAt:       p.JoinedAt,
		})
	}
	for _, round := range state.Rounds {
		dto.Rounds = append(dto.Rounds, duelRoundDTO{
			ID:          round.ID.String(),
			RoundNumber: round.RoundNumber,
			Prompt:      round.Prompt,
			Options:     round.Options,
		})
	}
	for _, a := range state.Answers {
		dto.Answers = append(dto.Answers, duelAnswerDTO{
			RoundID:        a.RoundID.String(),
			StudentID:      a.StudentID.String(),
			SelectedAnswer: a.SelectedAnswer,
			IsCorrect:      a.IsCorrect,
			ResponseTimeMs: a.ResponseTimeMs,
			PointsEarned:   a.PointsEarned,
		})
	}
	return dto
}

type challengeDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Metric       string `json:"metric"`
	TargetValue  int    `json:"targetValue"`
	RewardPoints int    `json:"rewardPoints"`
	Date         string `json:"date"`
}

func toChallengeDTO(c *domain.DailyChallenge) challengeDTO {
	return challengeDTO{
		ID:           c.ID.String(),
		Title:        c.Title,
		Description:  c.Description,
		Metric:       string(c.Metric),
		TargetValue:  c.TargetValue,
		RewardPoints: c.RewardPoints,
		Date:         c.ChallengeDate.Format("2006-01-02"),
	}
}
