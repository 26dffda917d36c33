package stats

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-trivia/internal/country"
	"country-trivia/internal/store/memory"
	"country-trivia/internal/user"
)

func seedUser(t *testing.T, store *memory.UserStore, username string, createdAt time.Time, stats user.Stats) {
	t.Helper()
	err := store.Create(context.Background(), user.User{
		Username:  username,
		CreatedAt: createdAt,
		Stats:     stats,
	})
	require.NoError(t, err)
}

func TestRecordResult(t *testing.T) {
	store := memory.NewUserStore()
	svc := NewService(store, zerolog.Nop())
	ctx := context.Background()

	seedUser(t, store, "alice", time.Now().UTC(), user.DefaultStats())

	assert.True(t, svc.RecordResult(ctx, "alice", country.TierEasy, 250))
	u, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 250, u.Stats.Best[country.TierEasy])
	assert.Equal(t, 1, u.Stats.GamesPlayed[country.TierEasy])

	// A worse score still counts a game but keeps the best.
	assert.True(t, svc.RecordResult(ctx, "alice", country.TierEasy, 150))
	u, err = store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 250, u.Stats.Best[country.TierEasy])
	assert.Equal(t, 2, u.Stats.GamesPlayed[country.TierEasy])

	// Other tiers are untouched.
	assert.Equal(t, 0, u.Stats.Best[country.TierHard])
}

func TestRecordResultUnknownUser(t *testing.T) {
	svc := NewService(memory.NewUserStore(), zerolog.Nop())
	assert.False(t, svc.RecordResult(context.Background(), "ghost", country.TierEasy, 100))
}

func TestRecordResultCaseInsensitive(t *testing.T) {
	store := memory.NewUserStore()
	svc := NewService(store, zerolog.Nop())
	ctx := context.Background()

	seedUser(t, store, "Alice", time.Now().UTC(), user.DefaultStats())

	assert.True(t, svc.RecordResult(ctx, "alice", country.TierMedium, 90))
	u, err := store.Get(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, 90, u.Stats.Best[country.TierMedium])
}

func statsOf(easy, medium, hard int) user.Stats {
	return user.Stats{
		Best: user.TierScores{
			country.TierEasy:   easy,
			country.TierMedium: medium,
			country.TierHard:   hard,
		},
		GamesPlayed: user.TierScores{
			country.TierEasy:   1,
			country.TierMedium: 1,
			country.TierHard:   1,
		},
	}
}

func TestMergeTakesPerTierMaximum(t *testing.T) {
	now := time.Now().UTC()
	a := user.User{Username: "dup", CreatedAt: now, Stats: statsOf(80, 10, 0)}
	b := user.User{Username: "dup", CreatedAt: now.Add(time.Hour), Stats: statsOf(120, 5, 30)}

	merged := Merge(a, b)
	assert.Equal(t, 120, merged.Stats.Best[country.TierEasy])
	assert.Equal(t, 10, merged.Stats.Best[country.TierMedium])
	assert.Equal(t, 30, merged.Stats.Best[country.TierHard])
	assert.Equal(t, now.Add(time.Hour), merged.CreatedAt, "later createdAt wins")
}

func TestMergeProperties(t *testing.T) {
	now := time.Now().UTC()
	a := user.User{Username: "dup", CreatedAt: now, Stats: statsOf(80, 10, 0)}
	b := user.User{Username: "dup", CreatedAt: now.Add(time.Hour), Stats: statsOf(120, 5, 30)}
	c := user.User{Username: "dup", CreatedAt: now.Add(-time.Hour), Stats: statsOf(0, 200, 15)}

	// Commutative.
	assert.Equal(t, Merge(a, b).Stats, Merge(b, a).Stats)
	// Associative.
	assert.Equal(t, Merge(Merge(a, b), c).Stats, Merge(a, Merge(b, c)).Stats)
	// Idempotent.
	assert.Equal(t, user.NormalizeStats(a.Stats), Merge(a, a).Stats)
}

func TestMergeNormalizesPartialRecords(t *testing.T) {
	a := user.User{Username: "dup", Stats: user.Stats{
		Best: user.TierScores{country.TierEasy: 50, "bogus": 999},
	}}
	b := user.User{Username: "dup", Stats: user.Stats{
		Best: user.TierScores{country.TierMedium: -10},
	}}

	merged := Merge(a, b)
	assert.Equal(t, 50, merged.Stats.Best[country.TierEasy])
	assert.Equal(t, 0, merged.Stats.Best[country.TierMedium], "negatives reset to zero")
	assert.NotContains(t, merged.Stats.Best, country.Tier("bogus"))
	for _, tier := range country.Tiers {
		assert.Contains(t, merged.Stats.Best, tier)
		assert.Contains(t, merged.Stats.GamesPlayed, tier)
	}
}

func TestDedupe(t *testing.T) {
	now := time.Now().UTC()
	users := []user.User{
		{Username: "Alice", CreatedAt: now, Stats: statsOf(100, 0, 0)},
		{Username: "bob", CreatedAt: now, Stats: statsOf(50, 0, 0)},
		{Username: "ALICE", CreatedAt: now.Add(time.Minute), Stats: statsOf(80, 60, 0)},
	}

	deduped := Dedupe(users)
	require.Len(t, deduped, 2)
	assert.Equal(t, "Alice", deduped[0].Username, "first-seen order is preserved")
	assert.Equal(t, 100, deduped[0].Stats.Best[country.TierEasy])
	assert.Equal(t, 60, deduped[0].Stats.Best[country.TierMedium])
	assert.Equal(t, "bob", deduped[1].Username)
}

func TestLeaderboard(t *testing.T) {
	store := memory.NewUserStore()
	svc := NewService(store, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC()

	seedUser(t, store, "zero", now, user.DefaultStats())
	seedUser(t, store, "low", now, statsOf(40, 0, 0))
	seedUser(t, store, "high", now, statsOf(90, 0, 0))
	seedUser(t, store, "alsohigh", now.Add(time.Hour), statsOf(90, 0, 0))

	entries, err := svc.Leaderboard(ctx, country.TierEasy, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "zero scores are filtered out")

	// Equal best and games played: the newer account ranks first.
	assert.Equal(t, "alsohigh", entries[0].Username)
	assert.Equal(t, "high", entries[1].Username)
	assert.Equal(t, "low", entries[2].Username)
	assert.Equal(t, 90, entries[0].BestScore)
}

func TestLeaderboardTieBreaksOnGamesPlayed(t *testing.T) {
	store := memory.NewUserStore()
	svc := NewService(store, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC()

	grinder := statsOf(90, 0, 0)
	grinder.GamesPlayed[country.TierEasy] = 7
	seedUser(t, store, "casual", now, statsOf(90, 0, 0))
	seedUser(t, store, "grinder", now, grinder)

	entries, err := svc.Leaderboard(ctx, country.TierEasy, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "grinder", entries[0].Username)
	assert.Equal(t, 7, entries[0].GamesPlayed)
}

func TestLeaderboardLimit(t *testing.T) {
	store := memory.NewUserStore()
	svc := NewService(store, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC()

	seedUser(t, store, "a", now, statsOf(10, 0, 0))
	seedUser(t, store, "b", now, statsOf(20, 0, 0))
	seedUser(t, store, "c", now, statsOf(30, 0, 0))

	entries, err := svc.Leaderboard(ctx, country.TierEasy, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Username)
	assert.Equal(t, "b", entries[1].Username)
}
