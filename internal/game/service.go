package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"country-trivia/internal/country"
	"country-trivia/internal/game/scoring"
	"country-trivia/internal/history"
)

// CatalogProvider resolves the country catalog (implemented by
// country.Service).
type CatalogProvider interface {
	Countries(ctx context.Context) ([]country.Country, error)
}

// StatsRecorder folds a completed session into per-user aggregates
// (implemented by stats.Service). A false return is recoverable.
type StatsRecorder interface {
	RecordResult(ctx context.Context, username string, tier country.Tier, totalScore int) bool
}

// HistoryAppender appends one record per completed session (implemented by
// history.Ledger).
type HistoryAppender interface {
	Append(ctx context.Context, username string, rec history.Record) error
}

// Service drives the ten-question game flow: selection, evaluation, scoring
// and end-of-session aggregation.
type Service struct {
	catalog     CatalogProvider
	partitioner *country.Partitioner
	engine      *scoring.Engine
	sessions    SessionStore
	stats       StatsRecorder
	ledger      HistoryAppender
	prefs       PrefStore
	snapshots   SnapshotStore
	logger      zerolog.Logger
}

// ServiceOptions wires the game service dependencies.
type ServiceOptions struct {
	Catalog     CatalogProvider
	Partitioner *country.Partitioner
	Engine      *scoring.Engine
	Sessions    SessionStore
	Stats       StatsRecorder
	Ledger      HistoryAppender
	Prefs       PrefStore
	Snapshots   SnapshotStore
}

func NewService(opts ServiceOptions, logger zerolog.Logger) *Service {
	engine := opts.Engine
	if engine == nil {
		engine = scoring.NewEngine(scoring.DefaultWeights())
	}
	partitioner := opts.Partitioner
	if partitioner == nil {
		partitioner = country.NewPartitioner(country.PartitionerOptions{})
	}
	return &Service{
		catalog:     opts.Catalog,
		partitioner: partitioner,
		engine:      engine,
		sessions:    opts.Sessions,
		stats:       opts.Stats,
		ledger:      opts.Ledger,
		prefs:       opts.Prefs,
		snapshots:   opts.Snapshots,
		logger:      logger.With().Str("component", "game").Logger(),
	}
}

// Start begins a new session for the user. An empty tier falls back to the
// user's stored preference, then to medium. The username comes from the
// caller (the identity layer); the engine never reads ambient identity.
func (s *Service) Start(ctx context.Context, username string, tier country.Tier) (*Session, error) {
	if username == "" {
		return nil, ErrNoActiveUser
	}
	if tier == "" {
		tier = s.preferredTier(ctx, username)
	}

	catalog, err := s.catalog.Countries(ctx)
	if err != nil {
		catalogFailures.Inc()
		return nil, fmt.Errorf("start game: %w", err)
	}

	picks := s.partitioner.Select(catalog, tier)
	if len(picks) == 0 {
		return nil, ErrNoCountries
	}

	session := NewSession(uuid.NewString(), username, tier, picks)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	// Preference and snapshot writes are best-effort.
	if s.prefs != nil {
		if err := s.prefs.SetLastTier(ctx, username, tier); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("tier preference save failed")
		}
	}
	if s.snapshots != nil {
		snap := Snapshot{Tier: tier, SavedAt: time.Now().UTC(), Countries: picks}
		if err := s.snapshots.SaveLastGame(ctx, username, snap); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("last-game snapshot save failed")
		}
	}

	gamesStarted.WithLabelValues(string(tier)).Inc()
	s.logger.Info().
		Str("session_id", session.ID).
		Str("username", username).
		Str("tier", string(tier)).
		Int("picks", len(picks)).
		Msg("game started")
	return session, nil
}

// SubmitAnswer evaluates one guess for the session's current question.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID string, g scoring.Guess) (*Session, scoring.QuestionResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, scoring.QuestionResult{}, err
	}

	result, err := session.Submit(s.engine, g)
	if err != nil {
		return session, scoring.QuestionResult{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, scoring.QuestionResult{}, fmt.Errorf("save session: %w", err)
	}
	return session, result, nil
}

// Advance moves a session past a revealed answer and finalizes it after the
// last question.
func (s *Service) Advance(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Advance(); err != nil {
		return session, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if session.Completed() {
		s.finalize(ctx, session)
	}
	return session, nil
}

// Get loads a session by ID.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// PreferredTier exposes the stored difficulty preference, defaulting to
// medium.
func (s *Service) PreferredTier(ctx context.Context, username string) country.Tier {
	return s.preferredTier(ctx, username)
}

func (s *Service) preferredTier(ctx context.Context, username string) country.Tier {
	if s.prefs != nil {
		if tier, ok, err := s.prefs.LastTier(ctx, username); err == nil && ok {
			return tier
		} else if err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("tier preference read failed")
		}
	}
	return country.TierMedium
}

// finalize folds a completed session into the user's stats and history.
// Both writes are recoverable: failures are logged, the session outcome
// still stands.
func (s *Service) finalize(ctx context.Context, session *Session) {
	if s.stats != nil {
		if ok := s.stats.RecordResult(ctx, session.Username, session.Tier, session.TotalScore); !ok {
			s.logger.Warn().
				Str("session_id", session.ID).
				Str("username", session.Username).
				Msg("stats update skipped")
		}
	}

	if s.ledger != nil {
		rec := history.Record{
			PlayedAt:   time.Now().UTC(),
			Tier:       session.Tier,
			TotalScore: session.TotalScore,
			Questions:  session.Results,
		}
		if err := s.ledger.Append(ctx, session.Username, rec); err != nil {
			s.logger.Warn().Err(err).
				Str("session_id", session.ID).
				Str("username", session.Username).
				Msg("history append failed")
		}
	}

	gamesCompleted.WithLabelValues(string(session.Tier)).Inc()
	s.logger.Info().
		Str("session_id", session.ID).
		Str("username", session.Username).
		Str("tier", string(session.Tier)).
		Int("total_score", session.TotalScore).
		Msg("game completed")
}
