// Package tokenizer estimates prompt sizes so business context sent to the
// agent stays inside a token budget.
package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens provides a rough token count estimate: the average of a
// word-based (~1.3 tokens per word) and a rune-based (~4 runes per token) guess.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	runes := utf8.RuneCountInString(text)

	wordEstimate := int(float64(words) * 1.3)
	charEstimate := runes / 4

	return (wordEstimate + charEstimate) / 2
}

// FitLines joins lines with newlines until the next one would exceed budget.
// It returns the joined text and how many lines fit.
func FitLines(lines []string, budget int) (string, int) {
	if budget <= 0 || len(lines) == 0 {
		return "", 0
	}

	var b strings.Builder
	used, count := 0, 0
	for _, line := range lines {
		cost := EstimateTokens(line) + 1 // newline
		if used+cost > budget {
			break
		}
		if count > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		used += cost
		count++
	}
	return b.String(), count
}
