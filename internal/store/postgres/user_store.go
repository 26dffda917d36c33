package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"country-trivia/internal/user"
)

// UserStore is the durable SQL implementation of user.Store. Stats are kept
// as a JSONB document and run through the same normalization as the KV
// backend on every read.
type UserStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ user.Store = (*UserStore)(nil)

func NewUserStore(pool *pgxpool.Pool, logger zerolog.Logger) *UserStore {
	return &UserStore{
		pool:   pool,
		logger: logger.With().Str("component", "user_store").Logger(),
	}
}

func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT username, password_hash, created_at, stats FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *UserStore) Get(ctx context.Context, username string) (user.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, created_at, stats FROM users WHERE username_key = $1`,
		user.Key(username))
	u, err := s.scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, u user.User) error {
	stats, err := marshalStats(u)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (username_key, username, password_hash, created_at, stats)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.Key(u.Username), u.Username, u.PasswordHash, u.CreatedAt, stats)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) Save(ctx context.Context, u user.User) error {
	stats, err := marshalStats(u)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (username_key, username, password_hash, created_at, stats)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username_key) DO UPDATE
		 SET username = EXCLUDED.username,
		     password_hash = EXCLUDED.password_hash,
		     created_at = EXCLUDED.created_at,
		     stats = EXCLUDED.stats`,
		user.Key(u.Username), u.Username, u.PasswordHash, u.CreatedAt, stats)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *UserStore) scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var stats []byte
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.CreatedAt, &stats); err != nil {
		return user.User{}, err
	}
	if err := json.Unmarshal(stats, &u.Stats); err != nil {
		s.logger.Warn().Err(err).Str("username", u.Username).Msg("corrupt stats document reset to defaults")
		u.Stats = user.DefaultStats()
	}
	return user.Normalize(u), nil
}

func marshalStats(u user.User) ([]byte, error) {
	stats, err := json.Marshal(user.NormalizeStats(u.Stats))
	if err != nil {
		return nil, fmt.Errorf("marshal stats: %w", err)
	}
	return stats, nil
}
