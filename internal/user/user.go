package user

import (
	"errors"
	"strings"
	"time"

	"country-trivia/internal/country"
)

var (
	// ErrNotFound is returned when no user matches a username.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned when a username is already registered.
	ErrAlreadyExists = errors.New("username already taken")
)

// TierScores maps every tier to a score or counter. After normalization the
// map is total over {easy, medium, hard}.
type TierScores map[country.Tier]int

// Stats holds per-tier aggregates owned by a user. Mutated only at session
// end via the stats aggregator.
type Stats struct {
	Best        TierScores `json:"best"`
	GamesPlayed TierScores `json:"gamesPlayed"`
}

// User is an identity record. The game engine only reads Username and Stats;
// credential material belongs to the auth service.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Stats        Stats     `json:"stats"`
}

// Key returns the case-insensitive identity key for a username.
func Key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// DefaultStats returns zeroed, total tier maps.
func DefaultStats() Stats {
	return Stats{
		Best:        zeroTiers(),
		GamesPlayed: zeroTiers(),
	}
}

// NormalizeStats coerces a stats record into a total, validated value:
// missing or negative tier entries become 0 and unknown keys are dropped.
// Every read boundary (stores, aggregator) applies this so downstream logic
// never observes a partial map.
func NormalizeStats(s Stats) Stats {
	return Stats{
		Best:        normalizeTiers(s.Best),
		GamesPlayed: normalizeTiers(s.GamesPlayed),
	}
}

// Normalize returns a copy of the user with total stats maps.
func Normalize(u User) User {
	u.Stats = NormalizeStats(u.Stats)
	return u
}

func zeroTiers() TierScores {
	ts := make(TierScores, len(country.Tiers))
	for _, t := range country.Tiers {
		ts[t] = 0
	}
	return ts
}

func normalizeTiers(in TierScores) TierScores {
	out := zeroTiers()
	for _, t := range country.Tiers {
		if v, ok := in[t]; ok && v > 0 {
			out[t] = v
		}
	}
	return out
}
