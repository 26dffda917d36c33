package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"country-trivia/internal/country"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "alice", Key("Alice"))
	assert.Equal(t, "alice", Key("  ALICE "))
	assert.Equal(t, "", Key("   "))
}

func TestDefaultStatsIsTotal(t *testing.T) {
	stats := DefaultStats()
	for _, tier := range country.Tiers {
		assert.Equal(t, 0, stats.Best[tier])
		assert.Equal(t, 0, stats.GamesPlayed[tier])
	}
}

func TestNormalizeStats(t *testing.T) {
	in := Stats{
		Best:        TierScores{country.TierEasy: 80, "bogus": 7, country.TierHard: -4},
		GamesPlayed: nil,
	}

	out := NormalizeStats(in)
	assert.Equal(t, 80, out.Best[country.TierEasy])
	assert.Equal(t, 0, out.Best[country.TierHard], "negative entries reset to zero")
	assert.NotContains(t, out.Best, country.Tier("bogus"))
	for _, tier := range country.Tiers {
		assert.Contains(t, out.Best, tier)
		assert.Contains(t, out.GamesPlayed, tier)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	u := User{Username: "alice", Stats: Stats{Best: TierScores{country.TierEasy: 10}}}
	_ = Normalize(u)
	assert.NotContains(t, u.Stats.Best, country.TierMedium, "input map stays untouched")
}
