package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backend selectors.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"country-trivia"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Storage  Storage
	Postgres Postgres
	Redis    Redis
	Security Security
	Catalog  Catalog
	Game     Game
}

// Storage selects the durable backend for users and play history.
// Sessions, preferences and snapshots always live in Redis.
type Storage struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"redis"`
}

// Postgres captures connection info for the SQL backend (only required when
// STORAGE_BACKEND=postgres).
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache + store configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for token signing.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

// Catalog configures the REST Countries fetch and its cache.
type Catalog struct {
	BaseURL      string        `env:"CATALOG_BASE_URL" envDefault:"https://restcountries.com"`
	FetchTimeout time.Duration `env:"CATALOG_FETCH_TIMEOUT" envDefault:"10s"`
	CacheTTL     time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"6h"`
}

// Game groups gameplay defaults.
type Game struct {
	SessionTTL      time.Duration `env:"GAME_SESSION_TTL" envDefault:"2h"`
	HistoryLimit    int           `env:"GAME_HISTORY_LIMIT" envDefault:"50"`
	LeaderboardTopN int           `env:"LEADERBOARD_TOP" envDefault:"10"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.Storage.Backend {
	case BackendRedis:
	case BackendPostgres:
		if cfg.Postgres.User == "" || cfg.Postgres.Database == "" {
			return nil, fmt.Errorf("postgres backend requires PG_USER and PG_DATABASE")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return cfg, nil
}
