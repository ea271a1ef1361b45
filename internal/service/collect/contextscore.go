package collect

import (
	"strings"
	"unicode"
)

// ContextLevel grades how well a sentence demonstrates a term in context.
type ContextLevel string

const (
	ContextNeedsWork  ContextLevel = "needs_work"
	ContextDeveloping ContextLevel = "developing"
	ContextStrong     ContextLevel = "strong"
	ContextExcellent  ContextLevel = "excellent"
)

// ContextScore is the result of the additive usage heuristic.
type ContextScore struct {
	Score       int
	Level       ContextLevel
	Feedback    string
	BonusPoints int
}

// ScoreContextUsage grades an example sentence for a term. The heuristic is
// additive and deterministic: base 20, term presence 30, length 10/20,
// terminal punctuation 10, capitalized start 10, vocabulary variety 10,
// clamped to [0, 100].
func ScoreContextUsage(term, sentence string) ContextScore {
	cleanTerm := strings.ToLower(strings.TrimSpace(term))
	cleanSentence := strings.TrimSpace(sentence)
	sentenceLower := strings.ToLower(cleanSentence)
	words := strings.Fields(cleanSentence)

	score := 20

	if cleanTerm != "" && strings.Contains(sentenceLower, cleanTerm) {
		score += 30
	}

	switch {
	case len(words) >= 8:
		score += 20
	case len(words) >= 5:
		score += 10
	}

	if endsWithTerminalPunct(cleanSentence) {
		score += 10
	}

	if startsUppercase(cleanSentence) {
		score += 10
	}

	if uniqueWordRatio(words) >= 0.75 {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	switch {
	case score >= 85:
		return ContextScore{
			Score:       score,
			Level:       ContextExcellent,
			Feedback:    "Excellent context usage. Natural, specific, and clear.",
			BonusPoints: 6,
		}
	case score >= 70:
		return ContextScore{
			Score:       score,
			Level:       ContextStrong,
			Feedback:    "Strong sentence. Keep adding detail to make usage even more natural.",
			BonusPoints: 4,
		}
	case score >= 50:
		return ContextScore{
			Score:       score,
			Level:       ContextDeveloping,
			Feedback:    "Good start. Include the term clearly in a fuller real-life sentence.",
			BonusPoints: 2,
		}
	default:
		return ContextScore{
			Score:       score,
			Level:       ContextNeedsWork,
			Feedback:    "Needs improvement. Use the term directly in a complete contextual sentence.",
			BonusPoints: 0,
		}
	}
}

func endsWithTerminalPunct(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func startsUppercase(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func uniqueWordRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}
