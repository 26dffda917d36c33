package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"country-trivia/internal/country"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"France", "france"},
		{"  Paris  ", "paris"},
		{"São Tomé", "sao tome"},
		{"Bogotá", "bogota"},
		{"REYKJAVÍK", "reykjavik"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeText(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeTextDiacriticsCompareEqual(t *testing.T) {
	assert.Equal(t, NormalizeText("Curaçao"), NormalizeText("curacao"))
	assert.Equal(t, NormalizeText("Asunción"), NormalizeText("ASUNCION"))
}

func TestWithinTolerance(t *testing.T) {
	const correct = 1_000_000

	cases := []struct {
		guess string
		want  bool
	}{
		{"1000000", true},
		{"900000", true},  // lower bound, inclusive
		{"1100000", true}, // upper bound, inclusive
		{"899999", false},
		{"1100001", false},
		{" 950000 ", true},
		{"abc", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WithinTolerance(tc.guess, correct, 0.10), "guess %q", tc.guess)
	}
}

func TestEvaluate(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	france := country.Country{
		Code:       "FR",
		Name:       "France",
		Capital:    "Paris",
		Population: 67_000_000,
	}

	cases := []struct {
		name   string
		guess  Guess
		points int
	}{
		{
			name:   "all correct",
			guess:  Guess{Name: "france", Capital: " PARIS ", Population: "67000000"},
			points: 100,
		},
		{
			name:   "population only",
			guess:  Guess{Name: "Germany", Capital: "Berlin", Population: "70000000"},
			points: 40,
		},
		{
			name:   "name only",
			guess:  Guess{Name: "France", Capital: "Lyon", Population: "1"},
			points: 30,
		},
		{
			name:   "capital only",
			guess:  Guess{Name: "Spain", Capital: "Paris", Population: "nope"},
			points: 30,
		},
		{
			name:   "all wrong",
			guess:  Guess{Name: "", Capital: "", Population: ""},
			points: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.Evaluate(3, france, tc.guess)
			assert.Equal(t, 3, res.Position)
			assert.Equal(t, "FR", res.CountryCode)
			assert.Equal(t, tc.points, res.Points)
		})
	}
}

func TestEvaluateEmptyGuessAgainstEmptyCapital(t *testing.T) {
	// Some catalog records have no capital. An empty guess then matches
	// the empty truth: both normalize to "".
	engine := NewEngine(DefaultWeights())
	c := country.Country{Code: "AQ", Name: "Somewhere", Capital: "", Population: 100}

	res := engine.Evaluate(0, c, Guess{Capital: ""})
	assert.True(t, res.CapitalCorrect)
	assert.Equal(t, 30, res.Points)
}
