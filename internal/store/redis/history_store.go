package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"country-trivia/internal/history"
	"country-trivia/internal/user"
)

// HistoryStore persists each user's play log as one JSON value. Corrupt
// stored values reset to an empty log.
type HistoryStore struct {
	client *redis.Client
	logger zerolog.Logger
}

var _ history.Store = (*HistoryStore)(nil)

func NewHistoryStore(client *redis.Client, logger zerolog.Logger) *HistoryStore {
	return &HistoryStore{
		client: client,
		logger: logger.With().Str("component", "history_store").Logger(),
	}
}

func (s *HistoryStore) List(ctx context.Context, username string) ([]history.Record, error) {
	data, err := s.client.Get(ctx, s.key(username)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var records []history.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("corrupt history log reset to empty")
		return nil, nil
	}
	return records, nil
}

func (s *HistoryStore) Save(ctx context.Context, username string, records []history.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return s.client.Set(ctx, s.key(username), data, 0).Err()
}

func (s *HistoryStore) key(username string) string {
	return "history:" + user.Key(username)
}
