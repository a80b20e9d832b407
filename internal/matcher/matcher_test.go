package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	name string
	dni  string
}

func personName(p person) string { return p.name }
func personDNI(p person) string  { return p.dni }

func TestBestMatch_PrefersCompleteName(t *testing.T) {
	candidates := []person{{name: "Ana María López"}, {name: "Ana López"}}

	got, score, ok := BestMatch("ana lopez", candidates, personName, QueryTokensInName)
	require.True(t, ok)
	assert.Equal(t, "Ana López", got.name)
	assert.Equal(t, 2, score.Matched)
	assert.Equal(t, 2, score.Total)
}

func TestBestMatch_MoreMatchedTokensWins(t *testing.T) {
	candidates := []person{{name: "Ana López"}, {name: "Ana María López"}}

	got, _, ok := BestMatch("ana maria lopez", candidates, personName, QueryTokensInName)
	require.True(t, ok)
	assert.Equal(t, "Ana María López", got.name)
}

func TestBestMatch_IgnoresInitials(t *testing.T) {
	// The "j" initial must not count as a matched token.
	candidates := []person{{name: "J. Pérez"}}
	_, score, ok := BestMatch("juan perez", candidates, personName, NameTokensInText)
	require.True(t, ok)
	assert.Equal(t, Score{Matched: 1, Total: 1}, score)

	assert.Equal(t, Score{Matched: 1, Total: 2}, ScoreName("ana", "Ana M. López", QueryTokensInName))
}

func TestBestMatch_FirstCandidateWinsRemainingTies(t *testing.T) {
	candidates := []person{{name: "Carla Gómez"}, {name: "Carla Gómez"}, {name: "Carla Díaz"}}
	candidates[1].dni = "second"
	got, _, ok := BestMatch("carla gomez", candidates, personName, QueryTokensInName)
	require.True(t, ok)
	assert.Empty(t, got.dni)
}

func TestBestMatch_RejectsZeroMatch(t *testing.T) {
	_, _, ok := BestMatch("pedro", []person{{name: "Ana López"}}, personName, QueryTokensInName)
	assert.False(t, ok)

	_, _, ok = BestMatch("", []person{{name: "Ana López"}}, personName, QueryTokensInName)
	assert.False(t, ok)
}

func TestBestMatch_NameTokensInText(t *testing.T) {
	candidates := []person{{name: "Martina Suárez"}, {name: "Lucía Fernández"}}
	got, score, ok := BestMatch("mandale el recordatorio del turno a Lucía Fernández porfa", candidates, personName, NameTokensInText)
	require.True(t, ok)
	assert.Equal(t, "Lucía Fernández", got.name)
	assert.Equal(t, 2, score.Matched)
}

func TestBestMatch_StrategiesDiffer(t *testing.T) {
	// "lopezz" contains "lopez" as a substring but not as a token.
	candidates := []person{{name: "Ana López"}}
	_, byText, ok := BestMatch("lopezz", candidates, personName, NameTokensInText)
	require.True(t, ok)
	assert.Equal(t, 1, byText.Matched)

	_, _, ok = BestMatch("lopezz", candidates, personName, QueryTokensInName)
	assert.False(t, ok)
}

func TestCompare(t *testing.T) {
	assert.Positive(t, Compare(Score{Matched: 2, Total: 2}, Score{Matched: 2, Total: 3}))
	assert.Negative(t, Compare(Score{Matched: 1, Total: 1}, Score{Matched: 2, Total: 5}))
	assert.Zero(t, Compare(Score{Matched: 1, Total: 2}, Score{Matched: 1, Total: 2}))
}

func TestMatchIdentity(t *testing.T) {
	candidates := []person{
		{name: "Ana López", dni: "28.999.111"},
		{name: "Jorge Paz", dni: "30.123.456"},
	}

	got, ok := MatchIdentity("dni 30123456", candidates, personDNI)
	require.True(t, ok)
	assert.Equal(t, "Jorge Paz", got.name)

	got, ok = MatchIdentity("ponele un dato importante al 28.999.111", candidates, personDNI)
	require.True(t, ok)
	assert.Equal(t, "Ana López", got.name)

	_, ok = MatchIdentity("dni 11111111", candidates, personDNI)
	assert.False(t, ok)

	_, ok = MatchIdentity("turno a las 14", candidates, personDNI)
	assert.False(t, ok)
}

func TestIdentityNumber(t *testing.T) {
	assert.Equal(t, "123456", IdentityNumber("DNI: 123456"))
	assert.Equal(t, "30123456", IdentityNumber("el paciente 30123456"))
	assert.Equal(t, "", IdentityNumber("tel 12345"))
}
