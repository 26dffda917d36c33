package memory

import (
	"context"
	"sync"

	"country-trivia/internal/country"
	"country-trivia/internal/game"
	"country-trivia/internal/user"
)

// SessionStore keeps in-flight sessions in process memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]game.Session
}

var _ game.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]game.Session)}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	copied := session
	return &copied, nil
}

func (s *SessionStore) Save(ctx context.Context, session *game.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// PrefStore keeps the last-selected difficulty per user in memory.
type PrefStore struct {
	mu    sync.RWMutex
	tiers map[string]country.Tier
}

var _ game.PrefStore = (*PrefStore)(nil)

func NewPrefStore() *PrefStore {
	return &PrefStore{tiers: make(map[string]country.Tier)}
}

func (s *PrefStore) LastTier(ctx context.Context, username string) (country.Tier, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tier, ok := s.tiers[user.Key(username)]
	return tier, ok, nil
}

func (s *PrefStore) SetLastTier(ctx context.Context, username string, tier country.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers[user.Key(username)] = tier
	return nil
}

// SnapshotStore keeps last-game snapshots per user in memory.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]game.Snapshot
}

var _ game.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]game.Snapshot)}
}

func (s *SnapshotStore) SaveLastGame(ctx context.Context, username string, snap game.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[user.Key(username)] = snap
	return nil
}

func (s *SnapshotStore) LastGame(ctx context.Context, username string) (*game.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[user.Key(username)]
	if !ok {
		return nil, nil
	}
	copied := snap
	return &copied, nil
}
