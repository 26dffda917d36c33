package stats

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"country-trivia/internal/country"
	"country-trivia/internal/user"
)

// Service folds completed sessions into per-user aggregates and serves the
// public leaderboard.
type Service struct {
	users  user.Store
	logger zerolog.Logger
}

func NewService(users user.Store, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger.With().Str("component", "stats").Logger(),
	}
}

// RecordResult updates a user's aggregates for one completed session:
// best[tier] keeps the maximum, gamesPlayed[tier] increments unconditionally,
// and the record is written back as a whole-value overwrite. A missing user
// is recoverable: it is logged and reported as false, never an error.
func (s *Service) RecordResult(ctx context.Context, username string, tier country.Tier, totalScore int) bool {
	u, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn().Str("username", username).Msg("stats update for unknown user skipped")
			return false
		}
		s.logger.Error().Err(err).Str("username", username).Msg("stats load failed")
		return false
	}

	u = user.Normalize(u)
	if totalScore > u.Stats.Best[tier] {
		u.Stats.Best[tier] = totalScore
	}
	u.Stats.GamesPlayed[tier]++

	if err := s.users.Save(ctx, u); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("stats save failed")
		return false
	}

	s.logger.Info().
		Str("username", u.Username).
		Str("tier", string(tier)).
		Int("score", totalScore).
		Int("best", u.Stats.Best[tier]).
		Msg("session folded into stats")
	return true
}

// Merge reconciles two records of the same user: per-tier maximum of best
// and gamesPlayed independently, later createdAt wins. Associative,
// commutative and idempotent, so duplicate records merge to the same result
// in any order.
func Merge(a, b user.User) user.User {
	a = user.Normalize(a)
	b = user.Normalize(b)

	merged := a
	merged.Stats = user.Stats{
		Best:        maxTiers(a.Stats.Best, b.Stats.Best),
		GamesPlayed: maxTiers(a.Stats.GamesPlayed, b.Stats.GamesPlayed),
	}
	if b.CreatedAt.After(a.CreatedAt) {
		merged.CreatedAt = b.CreatedAt
	}
	return merged
}

// Dedupe collapses users sharing a case-insensitive username via Merge,
// preserving first-seen order.
func Dedupe(users []user.User) []user.User {
	byKey := make(map[string]int, len(users))
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		key := user.Key(u.Username)
		if i, ok := byKey[key]; ok {
			out[i] = Merge(out[i], u)
			continue
		}
		byKey[key] = len(out)
		out = append(out, user.Normalize(u))
	}
	return out
}

func maxTiers(a, b user.TierScores) user.TierScores {
	out := make(user.TierScores, len(country.Tiers))
	for _, t := range country.Tiers {
		av, bv := a[t], b[t]
		if bv > av {
			av = bv
		}
		out[t] = av
	}
	return out
}

// Entry is one leaderboard row for a tier.
type Entry struct {
	Username    string `json:"username"`
	BestScore   int    `json:"bestScore"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// Leaderboard returns up to limit deduplicated users with a best score above
// zero for the tier, ordered by best score desc, games played desc, account
// age (newest first), then username.
func (s *Service) Leaderboard(ctx context.Context, tier country.Tier, limit int) ([]Entry, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	deduped := Dedupe(users)

	rows := make([]user.User, 0, len(deduped))
	for _, u := range deduped {
		if u.Stats.Best[tier] > 0 {
			rows = append(rows, u)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Stats.Best[tier] != b.Stats.Best[tier] {
			return a.Stats.Best[tier] > b.Stats.Best[tier]
		}
		if a.Stats.GamesPlayed[tier] != b.Stats.GamesPlayed[tier] {
			return a.Stats.GamesPlayed[tier] > b.Stats.GamesPlayed[tier]
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return strings.Compare(a.Username, b.Username) < 0
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	entries := make([]Entry, 0, len(rows))
	for _, u := range rows {
		entries = append(entries, Entry{
			Username:    u.Username,
			BestScore:   u.Stats.Best[tier],
			GamesPlayed: u.Stats.GamesPlayed[tier],
		})
	}
	return entries, nil
}
