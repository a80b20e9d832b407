package intent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

var quotedRe = regexp.MustCompile(`["“«]([^"”»]{2,})["”»]`)

// bodyPatterns pull a broadcast body out of the raw command, first hit wins.
var bodyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdiciendo(?:les)?\b\s*:?\s*(.+)$`),
	regexp.MustCompile(`(?i)\bdeciles\b\s*:?\s*(?:que\s+)?(.+)$`),
	regexp.MustCompile(`(?i)\bque\s+((?:los|las)\s+.+)$`),
}

// labelPatterns pull a tag label out of the raw command, first hit wins.
var labelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:dato importante|etiqueta|tag)\s*(?:que diga)?\s*[:\-]\s*(.+)$`),
	regexp.MustCompile(`(?i)\bque diga\s+(.+)$`),
	regexp.MustCompile(`(?i)\bque\s+(?:es|tiene|est[aá])\s+(.+)$`),
	regexp.MustCompile(`(?i)\bcomo\s+(.+)$`),
}

// extractMessageBody returns the quoted or implied broadcast text, or "".
func extractMessageBody(raw string) string {
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		return cleanFragment(m[1])
	}
	for _, re := range bodyPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			if body := cleanFragment(m[1]); body != "" {
				return body
			}
		}
	}
	return ""
}

// extractLabel returns the free-text tag label, or "".
func extractLabel(raw string) string {
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		return cleanFragment(m[1])
	}
	for _, re := range labelPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			if label := cleanFragment(m[1]); label != "" {
				return label
			}
		}
	}
	return ""
}

// cleanFragment trims whitespace, quotes and trailing punctuation and
// upper-cases the first letter.
func cleanFragment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'“”«»`)
	s = strings.TrimRight(s, " .,;!?")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// extractTier finds an audience tier keyword in normalized text.
func extractTier(text string) models.Severity {
	switch {
	case textnorm.HasWordPrefix(text, "critic"):
		return models.SeverityCritical
	case hasToken(text, "alto", "altos", "alta", "altas"):
		return models.SeverityHigh
	case hasToken(text, "medio", "medios", "media", "medias"):
		return models.SeverityMedium
	case textnorm.HasWordPrefix(text, "informativ"):
		return models.SeverityInfo
	}
	return ""
}

// classifySeverity maps a normalized tag label to a severity.
func classifySeverity(label string) models.Severity {
	text := textnorm.Normalize(label)
	switch {
	case textnorm.HasWordPrefix(text, "critic", "urgent"):
		return models.SeverityCritical
	case textnorm.HasWordPrefix(text, "alta", "importante", "prioridad", "sensible"):
		return models.SeverityHigh
	case textnorm.HasWordPrefix(text, "control", "seguimiento", "medio", "programa"):
		return models.SeverityMedium
	}
	return models.SeverityInfo
}

func hasToken(text string, words ...string) bool {
	for _, tok := range strings.Fields(text) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// severityLabel renders a severity in the dashboard's wording.
func severityLabel(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return "crítica"
	case models.SeverityHigh:
		return "alta"
	case models.SeverityMedium:
		return "media"
	case models.SeverityInfo:
		return "informativa"
	}
	return ""
}
