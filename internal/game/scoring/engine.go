package scoring

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"country-trivia/internal/country"
)

// Weights holds configurable scoring constants (defaults match requirements:
// the three weights sum to 100).
type Weights struct {
	Name                int     // default: 30
	Capital             int     // default: 30
	Population          int     // default: 40
	PopulationTolerance float64 // default: 0.10 (inclusive, symmetric)
}

// DefaultWeights returns production defaults.
func DefaultWeights() Weights {
	return Weights{
		Name:                30,
		Capital:             30,
		Population:          40,
		PopulationTolerance: 0.10,
	}
}

// Guess is one submitted answer: free text for name and capital, free text
// parsed as a number for population.
type Guess struct {
	Name       string `json:"name"`
	Capital    string `json:"capital"`
	Population string `json:"population"`
}

// QuestionResult records the outcome of a single question. Immutable once
// appended to a session.
type QuestionResult struct {
	Position          int    `json:"position"`
	CountryCode       string `json:"countryCode"`
	NameCorrect       bool   `json:"nameCorrect"`
	CapitalCorrect    bool   `json:"capitalCorrect"`
	PopulationCorrect bool   `json:"populationCorrect"`
	Points            int    `json:"points"`
}

// Engine evaluates guesses against a country. Stateless; safe for concurrent
// use.
type Engine struct {
	weights Weights
}

// NewEngine creates a scoring engine with the provided weights.
func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Evaluate scores one guess against the country at the given position.
func (e *Engine) Evaluate(position int, c country.Country, g Guess) QuestionResult {
	res := QuestionResult{
		Position:          position,
		CountryCode:       c.Code,
		NameCorrect:       NormalizeText(g.Name) == NormalizeText(c.Name),
		CapitalCorrect:    NormalizeText(g.Capital) == NormalizeText(c.Capital),
		PopulationCorrect: WithinTolerance(g.Population, float64(c.Population), e.weights.PopulationTolerance),
	}
	if res.NameCorrect {
		res.Points += e.weights.Name
	}
	if res.CapitalCorrect {
		res.Points += e.weights.Capital
	}
	if res.PopulationCorrect {
		res.Points += e.weights.Population
	}
	return res
}

// stripMarks removes combining marks after NFD decomposition, so "İstanbul"
// and "istanbul" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText case-folds, strips diacritical marks and trims whitespace.
// Empty input yields the empty string. Matching is exact equality on the
// normalized form, not fuzzy.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// WithinTolerance reports whether guess, parsed as a number, falls inside
// [correct*(1-tol), correct*(1+tol)]. Both bounds are inclusive and the band
// is symmetric around the true value. Non-numeric input is always a miss.
func WithinTolerance(guess string, correct float64, tol float64) bool {
	g, err := strconv.ParseFloat(strings.TrimSpace(guess), 64)
	if err != nil {
		return false
	}
	return g >= correct*(1-tol) && g <= correct*(1+tol)
}
