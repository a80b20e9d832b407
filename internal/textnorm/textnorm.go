// Package textnorm folds free text into the canonical form every matcher and
// rule in the engine compares against.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "mañana" becomes "manana".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold removes diacritics, lowercases and collapses whitespace while keeping
// punctuation. Dates ("15/03"), clock times ("14:30") and identity numbers
// ("30.123.456") survive Fold but not Normalize.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(stripMarks(s))), " ")
}

// Normalize removes diacritics, lowercases, replaces every run of characters
// outside [a-z0-9 ] with a single space and trims the result.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	folded := strings.ToLower(stripMarks(s))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Tokens returns the whitespace-delimited tokens of Normalize(s).
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// ContainsAny reports whether normalized text contains any of the needles as a substring.
func ContainsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// HasWordPrefix reports whether any token of normalized text starts with one of
// the given stems. Spanish imperatives carry clitics ("agregale", "ponele"),
// so verbs are matched by stem rather than by whole word.
func HasWordPrefix(text string, stems ...string) bool {
	for _, tok := range strings.Fields(text) {
		for _, s := range stems {
			if strings.HasPrefix(tok, s) {
				return true
			}
		}
	}
	return false
}
