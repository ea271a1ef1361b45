package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares text for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeForMatch prepares text for duplicate comparison. Stricter than
// NormalizeText: everything that is not a letter or digit becomes a space,
// runs of spaces collapse, and the result is trimmed. "Sustainable-Growth!"
// and "sustainable growth" normalize to the same form.
func NormalizeForMatch(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := true // leading separators are dropped
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}
