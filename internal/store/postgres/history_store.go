package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"country-trivia/internal/game/scoring"
	"country-trivia/internal/history"
	"country-trivia/internal/user"
)

// HistoryStore is the durable SQL implementation of history.Store. Save is a
// whole-log replace inside a transaction, matching the overwrite semantics
// of the KV backend.
type HistoryStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ history.Store = (*HistoryStore)(nil)

func NewHistoryStore(pool *pgxpool.Pool, logger zerolog.Logger) *HistoryStore {
	return &HistoryStore{
		pool:   pool,
		logger: logger.With().Str("component", "history_store").Logger(),
	}
}

func (s *HistoryStore) List(ctx context.Context, username string) ([]history.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT played_at, tier, total_score, questions
		 FROM game_history WHERE username_key = $1 ORDER BY id`,
		user.Key(username))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var rec history.Record
		var questions []byte
		if err := rows.Scan(&rec.PlayedAt, &rec.Tier, &rec.TotalScore, &questions); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal(questions, &rec.Questions); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("corrupt question log kept empty")
			rec.Questions = []scoring.QuestionResult{}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *HistoryStore) Save(ctx context.Context, username string, records []history.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin history save: %w", err)
	}
	defer tx.Rollback(ctx)

	key := user.Key(username)
	if _, err := tx.Exec(ctx, `DELETE FROM game_history WHERE username_key = $1`, key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for _, rec := range records {
		questions, err := json.Marshal(rec.Questions)
		if err != nil {
			return fmt.Errorf("marshal questions: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO game_history (username_key, played_at, tier, total_score, questions)
			 VALUES ($1, $2, $3, $4, $5)`,
			key, rec.PlayedAt, rec.Tier, rec.TotalScore, questions); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	return tx.Commit(ctx)
}
