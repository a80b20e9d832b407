package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 19 October 2026, 10:00 UTC.
var fixedNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	return NewParser(WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_RelativeDays(t *testing.T) {
	p := newTestParser()
	tests := []struct {
		in    string
		want  time.Time
		label string
	}{
		{in: "hoy", want: day(2026, time.October, 19), label: "hoy"},
		{in: "Mañana", want: day(2026, time.October, 20), label: "mañana"},
		{in: "pasado mañana", want: day(2026, time.October, 21), label: "pasado mañana"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			expr := p.Parse(tt.in)
			require.NotNil(t, expr)
			assert.True(t, expr.HasDate)
			assert.False(t, expr.HasTime)
			assert.Nil(t, expr.TargetDate)
			assert.Equal(t, tt.want, expr.Day)
			assert.Equal(t, tt.label, expr.TargetLabel)
		})
	}
}

func TestParse_Weekdays(t *testing.T) {
	p := newTestParser()

	expr := p.Parse("el lunes")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.October, 19), expr.Day, "same weekday without emphasis is today")

	expr = p.Parse("el próximo lunes")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.October, 26), expr.Day, "emphasis rolls a zero diff to next week")

	expr = p.Parse("proximo martes")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.October, 20), expr.Day, "emphasis does not change a non-zero diff")

	expr = p.Parse("el domingo")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.October, 25), expr.Day)
}

func TestParse_NumericDates(t *testing.T) {
	p := newTestParser()

	expr := p.Parse("25/12")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.December, 25), expr.Day)

	expr = p.Parse("15/03")
	require.NotNil(t, expr)
	assert.Equal(t, day(2027, time.March, 15), expr.Day, "past date without year rolls forward")

	expr = p.Parse("15/03/2026")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.March, 15), expr.Day, "explicit year never rolls")

	expr = p.Parse("01/02/27")
	require.NotNil(t, expr)
	assert.Equal(t, day(2027, time.February, 1), expr.Day)

	assert.Nil(t, p.Parse("31/02"), "impossible calendar date")
}

func TestParse_LongFormDates(t *testing.T) {
	p := newTestParser()

	expr := p.Parse("el 20 de octubre")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.October, 20), expr.Day)
	assert.Equal(t, "el 20 de octubre", expr.TargetLabel)

	expr = p.Parse("18 de octubre")
	require.NotNil(t, expr)
	assert.Equal(t, day(2027, time.October, 18), expr.Day)

	expr = p.Parse("3 de setiembre de 2028")
	require.NotNil(t, expr)
	assert.Equal(t, day(2028, time.September, 3), expr.Day)
}

func TestParse_Times(t *testing.T) {
	p := newTestParser()
	tests := []struct {
		in         string
		hour, mins int
	}{
		{in: "a las 14", hour: 14},
		{in: "a las 2pm", hour: 14},
		{in: "9 hs", hour: 9},
		{in: "para las 10:30", hour: 10, mins: 30},
		{in: "a la 1", hour: 1},
		{in: "a las 12am", hour: 0},
		{in: "a las 12pm", hour: 12},
		{in: "17horas", hour: 17},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			expr := p.Parse(tt.in)
			require.NotNil(t, expr)
			assert.True(t, expr.HasTime)
			assert.False(t, expr.HasDate)
			assert.Nil(t, expr.TargetDate)
			assert.Equal(t, tt.hour, expr.Hour)
			assert.Equal(t, tt.mins, expr.Minute)
		})
	}
}

func TestParse_RejectsInvalidTimes(t *testing.T) {
	p := newTestParser()
	for _, in := range []string{"a las 13pm", "a las 24", "a las 10:75", "25 hs"} {
		assert.Nil(t, p.Parse(in), in)
	}
}

func TestParse_CombinesDateAndTime(t *testing.T) {
	p := newTestParser()

	expr := p.Parse("Mañana a las 15:30")
	require.NotNil(t, expr)
	require.NotNil(t, expr.TargetDate)
	assert.True(t, expr.HasDate)
	assert.True(t, expr.HasTime)
	assert.Equal(t, time.Date(2026, time.October, 20, 15, 30, 0, 0, time.UTC), *expr.TargetDate)
	assert.Equal(t, "martes 20 de octubre, 15:30", expr.TargetLabel)

	expr = p.Parse("pasado mañana 9 hs")
	require.NotNil(t, expr)
	require.NotNil(t, expr.TargetDate)
	assert.Equal(t, time.Date(2026, time.October, 21, 9, 0, 0, 0, time.UTC), *expr.TargetDate)
}

func TestParse_NoCue(t *testing.T) {
	p := newTestParser()
	assert.Nil(t, p.Parse(""))
	assert.Nil(t, p.Parse("¿¡!?"))
	assert.Nil(t, p.Parse("reprogramá el turno de Ana"))
}

func TestParse_TimeOnlyLabel(t *testing.T) {
	expr := newTestParser().Parse("a las 9")
	require.NotNil(t, expr)
	assert.Equal(t, "a las 09:00", expr.TargetLabel)
}

func TestParse_PartOfDayIsNotTomorrow(t *testing.T) {
	p := newTestParser()

	expr := p.Parse("hoy a las 10 de la mañana")
	require.NotNil(t, expr)
	require.NotNil(t, expr.TargetDate)
	assert.Equal(t, time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC), *expr.TargetDate)

	expr = p.Parse("mañana por la mañana")
	require.NotNil(t, expr)
	assert.Equal(t, day(2026, time.October, 20), expr.Day)

	assert.Nil(t, p.Parse("a primera hora de la mañana"))
}

func TestStripCues(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "Reprogramá la consulta de Jorge para mañana a las 10", want: "reprograma la consulta de jorge para"},
		{in: "turno de Ana pasado mañana 9 hs", want: "turno de ana"},
		{in: "mové a Lucía al próximo lunes 15/03", want: "move a lucia al"},
		{in: "hoy a las 10 de la mañana", want: ""},
		{in: "Ana López", want: "ana lopez"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCues(tt.in))
		})
	}
}
