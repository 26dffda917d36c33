package memory

import (
	"context"
	"sync"

	"country-trivia/internal/user"
)

// UserStore is an in-memory user.Store for tests and single-process runs.
type UserStore struct {
	mu    sync.RWMutex
	users []user.User
}

var _ user.Store = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]user.User, len(s.users))
	for i, u := range s.users {
		out[i] = user.Normalize(u)
	}
	return out, nil
}

func (s *UserStore) Get(ctx context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := user.Key(username)
	for _, u := range s.users {
		if user.Key(u.Username) == key {
			return user.Normalize(u), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (s *UserStore) Create(ctx context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := user.Key(u.Username)
	for _, existing := range s.users {
		if user.Key(existing.Username) == key {
			return user.ErrAlreadyExists
		}
	}
	s.users = append(s.users, user.Normalize(u))
	return nil
}

func (s *UserStore) Save(ctx context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := user.Key(u.Username)
	for i, existing := range s.users {
		if user.Key(existing.Username) == key {
			s.users[i] = user.Normalize(u)
			return nil
		}
	}
	s.users = append(s.users, user.Normalize(u))
	return nil
}
