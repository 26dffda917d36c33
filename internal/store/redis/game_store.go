package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"country-trivia/internal/country"
	"country-trivia/internal/game"
	"country-trivia/internal/user"
)

const defaultSessionTTL = 2 * time.Hour

// SessionStore keeps in-flight sessions as JSON blobs with a TTL, so
// abandoned games expire on their own.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ game.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session_store").Logger(),
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*game.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session game.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn().Err(err).Str("session_id", id).Msg("corrupt session discarded")
		return nil, game.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *game.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "game:session:" + id
}

// PrefStore keeps the last-selected difficulty per user.
type PrefStore struct {
	client *redis.Client
}

var _ game.PrefStore = (*PrefStore)(nil)

func NewPrefStore(client *redis.Client) *PrefStore {
	return &PrefStore{client: client}
}

func (s *PrefStore) LastTier(ctx context.Context, username string) (country.Tier, bool, error) {
	raw, err := s.client.Get(ctx, s.key(username)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read tier preference: %w", err)
	}
	tier, err := country.ParseTier(raw)
	if err != nil {
		// A corrupt preference falls back to the default tier.
		return "", false, nil
	}
	return tier, true, nil
}

func (s *PrefStore) SetLastTier(ctx context.Context, username string, tier country.Tier) error {
	return s.client.Set(ctx, s.key(username), string(tier), 0).Err()
}

func (s *PrefStore) key(username string) string {
	return "pref:lastTier:" + user.Key(username)
}

// SnapshotStore keeps the best-effort last-game snapshot per user.
type SnapshotStore struct {
	client *redis.Client
	logger zerolog.Logger
}

var _ game.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(client *redis.Client, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		logger: logger.With().Str("component", "snapshot_store").Logger(),
	}
}

func (s *SnapshotStore) SaveLastGame(ctx context.Context, username string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key(username), data, 0).Err()
}

func (s *SnapshotStore) LastGame(ctx context.Context, username string) (*game.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(username)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("corrupt snapshot discarded")
		return nil, nil
	}
	return &snap, nil
}

func (s *SnapshotStore) key(username string) string {
	return "game:last:" + user.Key(username)
}
