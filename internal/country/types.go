package country

import "fmt"

// Tier classifies countries by population and doubles as the difficulty
// selector for a game session.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists every tier in canonical order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// Population thresholds separating the difficulty pools.
const (
	easyMinPopulation   = 50_000_000
	mediumMinPopulation = 1_000_000
)

// ParseTier validates a tier string coming from clients or storage.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierEasy, TierMedium, TierHard:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// Classify maps a population to its difficulty pool. Well-known countries
// (large populations) are the easy pool; microstates are the hard pool.
func Classify(population int64) Tier {
	switch {
	case population >= easyMinPopulation:
		return TierEasy
	case population >= mediumMinPopulation:
		return TierMedium
	default:
		return TierHard
	}
}

// Country is one record of the external catalog, mapped to the internal
// shape. Immutable once fetched.
type Country struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Capital    string `json:"capital"`
	Population int64  `json:"population"`
	FlagURL    string `json:"flagUrl"`
}

// Valid reports whether a country may appear in a session pick.
func (c Country) Valid() bool {
	return c.Population > 0
}
