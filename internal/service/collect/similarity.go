package collect

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// editSimilarity is 1 minus the normalized Levenshtein distance. The distance
// counts runes, so the denominator must too. Two empty strings are identical.
func editSimilarity(left, right string) float64 {
	maxLen := max(utf8.RuneCountInString(left), utf8.RuneCountInString(right))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(left, right))/float64(maxLen)
}

// tokenJaccard is the Jaccard index over whitespace-separated tokens.
func tokenJaccard(left, right string) float64 {
	leftTokens := tokenSet(left)
	rightTokens := tokenSet(right)

	if len(leftTokens) == 0 && len(rightTokens) == 0 {
		return 1
	}
	if len(leftTokens) == 0 || len(rightTokens) == 0 {
		return 0
	}

	intersection := 0
	union := len(rightTokens)
	for token := range leftTokens {
		if _, ok := rightTokens[token]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// stringSimilarity combines edit and token similarity. Taking the max keeps
// both reorderings ("break the ice" vs "the ice break") and small typos close
// to 1.
func stringSimilarity(left, right string) float64 {
	edit := editSimilarity(left, right)
	token := tokenJaccard(left, right)
	if token > edit {
		return token
	}
	return edit
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(s) {
		set[token] = struct{}{}
	}
	return set
}
