package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-trivia/internal/country"
	"country-trivia/internal/game"
	"country-trivia/internal/game/scoring"
	"country-trivia/internal/history"
	"country-trivia/internal/stats"
	"country-trivia/internal/store/memory"
	"country-trivia/internal/user"
)

type stubCatalog struct {
	countries []country.Country
	err       error
}

func (s *stubCatalog) Countries(ctx context.Context) ([]country.Country, error) {
	return s.countries, s.err
}

func catalogOf(n int) []country.Country {
	countries := make([]country.Country, 0, n)
	for i := 0; i < n; i++ {
		countries = append(countries, country.Country{
			Code:       string(rune('A'+i)) + "X",
			Name:       "Country " + string(rune('A'+i)),
			Capital:    "Capital " + string(rune('A'+i)),
			Population: 5_000_000,
			FlagURL:    "https://flags.test/x.png",
		})
	}
	return countries
}

type fixture struct {
	svc     *game.Service
	users   *memory.UserStore
	ledger  *history.Ledger
	prefs   *memory.PrefStore
	history *memory.HistoryStore
}

func newFixture(t *testing.T, catalog game.CatalogProvider) *fixture {
	t.Helper()

	users := memory.NewUserStore()
	historyStore := memory.NewHistoryStore()
	ledger := history.NewLedger(historyStore, history.DefaultLimit)
	prefs := memory.NewPrefStore()

	svc := game.NewService(game.ServiceOptions{
		Catalog:     catalog,
		Partitioner: country.NewPartitioner(country.PartitionerOptions{Seed: 1}),
		Sessions:    memory.NewSessionStore(),
		Stats:       stats.NewService(users, zerolog.Nop()),
		Ledger:      ledger,
		Prefs:       prefs,
		Snapshots:   memory.NewSnapshotStore(),
	}, zerolog.Nop())

	return &fixture{svc: svc, users: users, ledger: ledger, prefs: prefs, history: historyStore}
}

func registerUser(t *testing.T, users *memory.UserStore, username string) {
	t.Helper()
	err := users.Create(context.Background(), user.User{
		Username:  username,
		CreatedAt: time.Now().UTC(),
		Stats:     user.DefaultStats(),
	})
	require.NoError(t, err)
}

func TestStartRequiresUser(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})

	_, err := f.svc.Start(context.Background(), "", country.TierMedium)
	assert.ErrorIs(t, err, game.ErrNoActiveUser)
}

func TestStartEmptyCatalog(t *testing.T) {
	f := newFixture(t, &stubCatalog{})

	_, err := f.svc.Start(context.Background(), "alice", country.TierMedium)
	assert.ErrorIs(t, err, game.ErrNoCountries)
}

func TestStartCatalogFailure(t *testing.T) {
	f := newFixture(t, &stubCatalog{err: country.ErrUnavailable})

	_, err := f.svc.Start(context.Background(), "alice", country.TierMedium)
	assert.ErrorIs(t, err, country.ErrUnavailable)
}

func TestStartRemembersTierPreference(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "alice", country.TierHard)
	require.NoError(t, err)
	assert.Equal(t, country.TierHard, session.Tier)

	// An empty tier on the next start reuses the stored preference.
	session, err = f.svc.Start(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, country.TierHard, session.Tier)
}

func TestStartDefaultsToMedium(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})

	session, err := f.svc.Start(context.Background(), "fresh", "")
	require.NoError(t, err)
	assert.Equal(t, country.TierMedium, session.Tier)
}

func TestFullGameFlow(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})
	ctx := context.Background()
	registerUser(t, f.users, "alice")

	session, err := f.svc.Start(ctx, "alice", country.TierMedium)
	require.NoError(t, err)
	require.Len(t, session.Picks, country.DefaultPickSize)

	for i := 0; i < country.DefaultPickSize; i++ {
		current, ok := session.Current()
		require.True(t, ok)

		session, _, err = f.svc.SubmitAnswer(ctx, session.ID, scoring.Guess{
			Name:       current.Name,
			Capital:    current.Capital,
			Population: "5000000",
		})
		require.NoError(t, err)
		assert.Equal(t, game.PhaseAnswerRevealed, session.Phase)

		session, err = f.svc.Advance(ctx, session.ID)
		require.NoError(t, err)
	}

	assert.True(t, session.Completed())
	assert.Equal(t, 1000, session.TotalScore)

	// Completion folds the result into stats and history.
	u, err := f.users.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1000, u.Stats.Best[country.TierMedium])
	assert.Equal(t, 1, u.Stats.GamesPlayed[country.TierMedium])

	records, err := f.ledger.Recent(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1000, records[0].TotalScore)
	assert.Equal(t, country.TierMedium, records[0].Tier)
	assert.Len(t, records[0].Questions, country.DefaultPickSize)
}

func TestBestScoreKeepsMaximum(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})
	ctx := context.Background()
	registerUser(t, f.users, "bob")

	playThrough := func(correct bool) {
		session, err := f.svc.Start(ctx, "bob", country.TierMedium)
		require.NoError(t, err)
		for !session.Completed() {
			guess := scoring.Guess{}
			if correct {
				current, ok := session.Current()
				require.True(t, ok)
				guess = scoring.Guess{Name: current.Name, Capital: current.Capital, Population: "5000000"}
			}
			session, _, err = f.svc.SubmitAnswer(ctx, session.ID, guess)
			require.NoError(t, err)
			session, err = f.svc.Advance(ctx, session.ID)
			require.NoError(t, err)
		}
	}

	playThrough(true)
	playThrough(false)

	u, err := f.users.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1000, u.Stats.Best[country.TierMedium], "a worse later game never lowers the best")
	assert.Equal(t, 2, u.Stats.GamesPlayed[country.TierMedium])
}

func TestUnknownUserCompletionIsRecoverable(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})
	ctx := context.Background()

	// "ghost" was never registered; the game still completes and lands in
	// history, only the stats fold is skipped.
	session, err := f.svc.Start(ctx, "ghost", country.TierMedium)
	require.NoError(t, err)
	for !session.Completed() {
		session, _, err = f.svc.SubmitAnswer(ctx, session.ID, scoring.Guess{})
		require.NoError(t, err)
		session, err = f.svc.Advance(ctx, session.ID)
		require.NoError(t, err)
	}

	records, err := f.ledger.Recent(ctx, "ghost", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmitUnknownSession(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})

	_, _, err := f.svc.SubmitAnswer(context.Background(), "nope", scoring.Guess{})
	assert.ErrorIs(t, err, game.ErrSessionNotFound)
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	f := newFixture(t, &stubCatalog{countries: catalogOf(12)})
	ctx := context.Background()

	a, err := f.svc.Start(ctx, "alice", country.TierMedium)
	require.NoError(t, err)
	b, err := f.svc.Start(ctx, "bob", country.TierHard)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	a, _, err = f.svc.SubmitAnswer(ctx, a.ID, scoring.Guess{})
	require.NoError(t, err)
	assert.Equal(t, game.PhaseAnswerRevealed, a.Phase)

	b, err = f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseAwaitingAnswer, b.Phase, "one session's submit never touches another")
}
