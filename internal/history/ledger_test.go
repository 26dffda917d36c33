package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-trivia/internal/country"
	"country-trivia/internal/history"
	"country-trivia/internal/store/memory"
)

func record(playedAt time.Time, score int) history.Record {
	return history.Record{
		PlayedAt:   playedAt,
		Tier:       country.TierMedium,
		TotalScore: score,
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	ledger := history.NewLedger(memory.NewHistoryStore(), history.DefaultLimit)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < history.DefaultLimit+1; i++ {
		require.NoError(t, ledger.Append(ctx, "alice", record(base.Add(time.Duration(i)*time.Minute), i)))
	}

	records, err := ledger.Recent(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, records, history.DefaultLimit)

	// The first append (score 0) was evicted; the newest survives.
	assert.Equal(t, history.DefaultLimit, records[0].TotalScore)
	assert.Equal(t, 1, records[len(records)-1].TotalScore)
}

func TestAppendSmallLimit(t *testing.T) {
	ledger := history.NewLedger(memory.NewHistoryStore(), 3)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.Append(ctx, "bob", record(base.Add(time.Duration(i)*time.Minute), i)))
	}

	records, err := ledger.Recent(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 4, records[0].TotalScore)
	assert.Equal(t, 2, records[2].TotalScore)
}

func TestRecentSortsByPlayedAtDescending(t *testing.T) {
	ledger := history.NewLedger(memory.NewHistoryStore(), history.DefaultLimit)
	ctx := context.Background()
	base := time.Now().UTC()

	// Appended out of chronological order.
	require.NoError(t, ledger.Append(ctx, "carol", record(base.Add(2*time.Minute), 2)))
	require.NoError(t, ledger.Append(ctx, "carol", record(base, 0)))
	require.NoError(t, ledger.Append(ctx, "carol", record(base.Add(time.Minute), 1)))

	records, err := ledger.Recent(ctx, "carol", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[0].TotalScore)
	assert.Equal(t, 1, records[1].TotalScore)
	assert.Equal(t, 0, records[2].TotalScore)
}

func TestRecentTiesKeepLogOrder(t *testing.T) {
	ledger := history.NewLedger(memory.NewHistoryStore(), history.DefaultLimit)
	ctx := context.Background()
	at := time.Now().UTC()

	require.NoError(t, ledger.Append(ctx, "dave", record(at, 10)))
	require.NoError(t, ledger.Append(ctx, "dave", record(at, 20)))

	records, err := ledger.Recent(ctx, "dave", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 10, records[0].TotalScore)
	assert.Equal(t, 20, records[1].TotalScore)
}

func TestRecentLimit(t *testing.T) {
	ledger := history.NewLedger(memory.NewHistoryStore(), history.DefaultLimit)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.Append(ctx, "erin", record(base.Add(time.Duration(i)*time.Minute), i)))
	}

	records, err := ledger.Recent(ctx, "erin", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 4, records[0].TotalScore)
	assert.Equal(t, 3, records[1].TotalScore)
}

func TestLedgersAreIsolatedPerUser(t *testing.T) {
	ledger := history.NewLedger(memory.NewHistoryStore(), history.DefaultLimit)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "alice", record(time.Now().UTC(), 10)))

	records, err := ledger.Recent(ctx, "bob", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
