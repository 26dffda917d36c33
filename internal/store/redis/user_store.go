package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"country-trivia/internal/user"
)

const usersKey = "users"

// UserStore persists the whole user list as one JSON value, mirroring the
// key-value shape of the persistence provider. Reads normalize stats;
// corrupt stored values reset to an empty list instead of failing.
type UserStore struct {
	client *redis.Client
	logger zerolog.Logger
}

var _ user.Store = (*UserStore)(nil)

func NewUserStore(client *redis.Client, logger zerolog.Logger) *UserStore {
	return &UserStore{
		client: client,
		logger: logger.With().Str("component", "user_store").Logger(),
	}
}

func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	data, err := s.client.Get(ctx, usersKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	var users []user.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt user list reset to empty")
		return nil, nil
	}
	for i := range users {
		users[i] = user.Normalize(users[i])
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, username string) (user.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return user.User{}, err
	}
	key := user.Key(username)
	for _, u := range users {
		if user.Key(u.Username) == key {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (s *UserStore) Create(ctx context.Context, u user.User) error {
	users, err := s.List(ctx)
	if err != nil {
		return err
	}
	key := user.Key(u.Username)
	for _, existing := range users {
		if user.Key(existing.Username) == key {
			return user.ErrAlreadyExists
		}
	}
	return s.writeAll(ctx, append(users, user.Normalize(u)))
}

func (s *UserStore) Save(ctx context.Context, u user.User) error {
	users, err := s.List(ctx)
	if err != nil {
		return err
	}
	key := user.Key(u.Username)
	replaced := false
	for i, existing := range users {
		if user.Key(existing.Username) == key {
			users[i] = user.Normalize(u)
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user.Normalize(u))
	}
	return s.writeAll(ctx, users)
}

// writeAll is a whole-value overwrite; concurrent writers race with
// last-write-wins semantics at the storage layer.
func (s *UserStore) writeAll(ctx context.Context, users []user.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	return s.client.Set(ctx, usersKey, data, 0).Err()
}
