// Package temporal extracts dates and clock times from Spanish free text
// ("pasado mañana a las 10", "el próximo lunes", "15/03 14hs").
package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

// Expression is the result of parsing one text span.
// TargetDate is set only when both a date and a time were found.
type Expression struct {
	HasDate     bool       `json:"has_date"`
	HasTime     bool       `json:"has_time"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	TargetLabel string     `json:"target_label,omitempty"`

	// Day is the base date at midnight; zero when HasDate is false.
	Day time.Time `json:"day,omitempty"`
	// Hour and Minute are meaningful only when HasTime is true.
	Hour   int `json:"hour,omitempty"`
	Minute int `json:"minute,omitempty"`
}

// Parser resolves expressions relative to a clock in a fixed location.
type Parser struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLocation sets the location used to compute "today".
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// NewParser creates a Parser using the wall clock in the local time zone.
func NewParser(opts ...Option) *Parser {
	p := &Parser{now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(p)
	}
	return p
}

var (
	weekdayRe = regexp.MustCompile(`(?:\b(proximo|proxima|siguiente)\s+)?\b(domingo|lunes|martes|miercoles|jueves|viernes|sabado)\b`)
	numericRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
	longRe    = regexp.MustCompile(`\b(\d{1,2}) de (enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)(?: del? (\d{4}|\d{2}))?\b`)

	// "de la mañana" names a part of the day, not tomorrow.
	timeOfDayRe   = regexp.MustCompile(`\b(?:de|por) la manana\b`)
	relativeDayRe = regexp.MustCompile(`\b(?:pasado manana|manana|hoy)\b`)

	// Tried in order; the first one yielding a valid clock time wins.
	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:a las|para las|a la|las)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`),
		regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(hs|horas|h)\b`),
	}
)

var weekdayIndex = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
}

var monthIndex = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

var weekdayNames = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var monthNames = [...]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// WeekdayName returns the Spanish name of d.
func WeekdayName(d time.Weekday) string { return weekdayNames[d] }

// MonthName returns the Spanish name of m.
func MonthName(m time.Month) string { return monthNames[m] }

// FormatLabel renders t as "lunes 20 de octubre, 14:00".
func FormatLabel(t time.Time) string {
	return fmt.Sprintf("%s %d de %s, %02d:%02d", WeekdayName(t.Weekday()), t.Day(), MonthName(t.Month()), t.Hour(), t.Minute())
}

// Parse extracts a date and/or time from raw. It returns nil when the text is
// empty or carries no temporal cue.
func (p *Parser) Parse(raw string) *Expression {
	if textnorm.Normalize(raw) == "" {
		return nil
	}
	text := timeOfDayRe.ReplaceAllString(textnorm.Fold(raw), " ")
	now := p.now().In(p.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)

	day, dateLabel, hasDate := p.parseDate(text, today)
	hour, minute, hasTime := parseClock(text)

	if !hasDate && !hasTime {
		return nil
	}

	expr := &Expression{HasDate: hasDate, HasTime: hasTime}
	if hasDate {
		expr.Day = day
	}
	if hasTime {
		expr.Hour, expr.Minute = hour, minute
	}

	if hasDate && hasTime {
		target := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.loc)
		expr.TargetDate = &target
		expr.TargetLabel = FormatLabel(target)
		return expr
	}

	var parts []string
	if hasDate {
		parts = append(parts, dateLabel)
	}
	if hasTime {
		parts = append(parts, fmt.Sprintf("a las %02d:%02d", hour, minute))
	}
	expr.TargetLabel = strings.Join(parts, " ")
	return expr
}

// StripCues folds raw and removes every date and time phrase Parse would
// recognise, so names can be searched in what is left ("ana" must not hit
// inside "manana").
func StripCues(raw string) string {
	text := textnorm.Fold(raw)
	cues := []*regexp.Regexp{timeOfDayRe, relativeDayRe, weekdayRe, numericRe, longRe}
	for _, re := range append(cues, timePatterns...) {
		text = re.ReplaceAllString(text, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}

// parseDate applies the date rules in priority order and returns the first hit.
func (p *Parser) parseDate(text string, today time.Time) (time.Time, string, bool) {
	// Longest phrase first so "manana" does not fire inside "pasado manana".
	switch {
	case strings.Contains(text, "pasado manana"):
		return today.AddDate(0, 0, 2), "pasado mañana", true
	case strings.Contains(text, "manana"):
		return today.AddDate(0, 0, 1), "mañana", true
	case strings.Contains(text, "hoy"):
		return today, "hoy", true
	}

	if m := weekdayRe.FindStringSubmatch(text); m != nil {
		target := weekdayIndex[m[2]]
		diff := (int(target) - int(today.Weekday()) + 7) % 7
		emphasis := m[1] != ""
		if diff == 0 && emphasis {
			diff = 7
		}
		label := "el " + WeekdayName(target)
		if emphasis {
			label = "el próximo " + WeekdayName(target)
		}
		return today.AddDate(0, 0, diff), label, true
	}

	if m := numericRe.FindStringSubmatch(text); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if date, ok := buildDate(today, d, time.Month(mo), m[3]); ok {
			return date, dateLabel(date, today), true
		}
	}

	if m := longRe.FindStringSubmatch(text); m != nil {
		d, _ := strconv.Atoi(m[1])
		if date, ok := buildDate(today, d, monthIndex[m[2]], m[3]); ok {
			return date, dateLabel(date, today), true
		}
	}

	return time.Time{}, "", false
}

// buildDate validates day/month, applies an explicit year or defaults to the
// current one, and rolls a year-less date that already passed into next year.
func buildDate(today time.Time, day int, month time.Month, yearText string) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := today.Year()
	explicit := yearText != ""
	if explicit {
		y, err := strconv.Atoi(yearText)
		if err != nil {
			return time.Time{}, false
		}
		if len(yearText) == 2 {
			y += 2000
		}
		year = y
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if date.Day() != day || date.Month() != month {
		// 31/02 and friends: time.Date would silently normalise.
		return time.Time{}, false
	}
	if !explicit && date.Before(today) {
		date = time.Date(year+1, month, day, 0, 0, 0, 0, today.Location())
		if date.Day() != day {
			return time.Time{}, false
		}
	}
	return date, true
}

func dateLabel(date, today time.Time) string {
	if date.Year() == today.Year() {
		return fmt.Sprintf("el %d de %s", date.Day(), MonthName(date.Month()))
	}
	return fmt.Sprintf("el %d de %s de %d", date.Day(), MonthName(date.Month()), date.Year())
}

// parseClock tries each time pattern in order.
func parseClock(text string) (int, int, bool) {
	for _, re := range timePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if h, mi, ok := clockFrom(m[1], m[2], m[3]); ok {
			return h, mi, true
		}
	}
	return 0, 0, false
}

func clockFrom(hourText, minuteText, suffix string) (int, int, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, 0, false
	}
	minute := 0
	if minuteText != "" {
		if minute, err = strconv.Atoi(minuteText); err != nil {
			return 0, 0, false
		}
	}

	switch suffix {
	case "pm", "am":
		// A 12-hour reading needs a 12-hour value; "13pm" has no valid meaning.
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if suffix == "pm" && hour < 12 {
			hour += 12
		}
		if suffix == "am" && hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
