package memory

import (
	"context"
	"sync"

	"country-trivia/internal/history"
	"country-trivia/internal/user"
)

// HistoryStore is an in-memory history.Store.
type HistoryStore struct {
	mu   sync.RWMutex
	logs map[string][]history.Record
}

var _ history.Store = (*HistoryStore)(nil)

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{logs: make(map[string][]history.Record)}
}

func (s *HistoryStore) List(ctx context.Context, username string) ([]history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.logs[user.Key(username)]
	out := make([]history.Record, len(records))
	copy(out, records)
	return out, nil
}

func (s *HistoryStore) Save(ctx context.Context, username string, records []history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]history.Record, len(records))
	copy(copied, records)
	s.logs[user.Key(username)] = copied
	return nil
}
