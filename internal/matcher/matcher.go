// Package matcher resolves a free-text fragment to one entity by token overlap.
//
// The same scoring is used for patients, appointment owners and products; only
// the direction of the token comparison changes between call sites.
package matcher

import (
	"regexp"
	"strings"

	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

// Strategy selects how a candidate's name tokens are tested against the query.
type Strategy int

const (
	// QueryTokensInName counts name tokens present in the query's token set.
	// Used when the query is (mostly) a name.
	QueryTokensInName Strategy = iota

	// NameTokensInText counts name tokens contained anywhere in the query
	// string. Used when the name is buried in a longer command.
	NameTokensInText
)

// Score ranks one candidate against a query. Total counts the candidate's
// name tokens of two or more characters; initials are left out of both fields.
type Score struct {
	Matched int
	Total   int
}

// Completeness is the share of the candidate's tokens that matched.
func (s Score) Completeness() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

// Compare returns >0 when a ranks above b, <0 when below and 0 on a full tie.
// Order: matched tokens, completeness, then the longer (more specific) name.
func Compare(a, b Score) int {
	if a.Matched != b.Matched {
		return a.Matched - b.Matched
	}
	// Cross-multiplied to avoid float equality on the ratio.
	if l, r := a.Matched*b.Total, b.Matched*a.Total; l != r {
		return l - r
	}
	return a.Total - b.Total
}

// nameTokens drops single-character tokens (initials) that would match almost anything.
func nameTokens(name string) []string {
	toks := textnorm.Tokens(name)
	out := toks[:0]
	for _, t := range toks {
		if len(t) > 1 {
			out = append(out, t)
		}
	}
	return out
}

// ScoreName scores a single name against a query. The query may be raw text.
func ScoreName(query, name string, strategy Strategy) Score {
	return scoreTokens(textnorm.Normalize(query), nameTokens(name), strategy)
}

func scoreTokens(normQuery string, tokens []string, strategy Strategy) Score {
	s := Score{Total: len(tokens)}
	if len(tokens) == 0 || normQuery == "" {
		return s
	}
	switch strategy {
	case NameTokensInText:
		for _, t := range tokens {
			if strings.Contains(normQuery, t) {
				s.Matched++
			}
		}
	default:
		set := make(map[string]struct{})
		for _, q := range strings.Fields(normQuery) {
			set[q] = struct{}{}
		}
		for _, t := range tokens {
			if _, ok := set[t]; ok {
				s.Matched++
			}
		}
	}
	return s
}

// BestMatch returns the highest ranked candidate whose name shares at least one
// token with the query. Remaining ties go to the first candidate encountered.
func BestMatch[T any](query string, candidates []T, nameOf func(T) string, strategy Strategy) (T, Score, bool) {
	var (
		best      T
		bestScore Score
		found     bool
	)
	normQuery := textnorm.Normalize(query)
	if normQuery == "" {
		return best, bestScore, false
	}
	for _, c := range candidates {
		s := scoreTokens(normQuery, nameTokens(nameOf(c)), strategy)
		if s.Matched == 0 {
			continue
		}
		if !found || Compare(s, bestScore) > 0 {
			best, bestScore, found = c, s, true
		}
	}
	return best, bestScore, found
}

var (
	dniRe  = regexp.MustCompile(`\bdni[\s:#nro.]*([\d.\-]{6,})`)
	bareRe = regexp.MustCompile(`\b(\d{1,2}\.\d{3}\.\d{3}|\d{7,8})\b`)
)

// IdentityNumber extracts an identity number from the query: "dni <6+ digits>"
// or a bare 7–8 digit token, thousands separators allowed. Returns "" if none.
func IdentityNumber(query string) string {
	text := textnorm.Fold(query)
	if m := dniRe.FindStringSubmatch(text); m != nil {
		if d := digitsOnly(m[1]); len(d) >= 6 {
			return d
		}
	}
	if m := bareRe.FindStringSubmatch(text); m != nil {
		return digitsOnly(m[1])
	}
	return ""
}

// MatchIdentity returns the first candidate whose stored identity number,
// stripped to digits, equals the number found in the query.
func MatchIdentity[T any](query string, candidates []T, idOf func(T) string) (T, bool) {
	var zero T
	want := IdentityNumber(query)
	if want == "" {
		return zero, false
	}
	for _, c := range candidates {
		if digitsOnly(idOf(c)) == want {
			return c, true
		}
	}
	return zero, false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
