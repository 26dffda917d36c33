package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"country-trivia/internal/auth"
	"country-trivia/internal/auth/jwt"
	"country-trivia/internal/config"
	"country-trivia/internal/country"
	"country-trivia/internal/country/external"
	"country-trivia/internal/game"
	"country-trivia/internal/history"
	"country-trivia/internal/logging"
	"country-trivia/internal/server"
	"country-trivia/internal/stats"
	pgstore "country-trivia/internal/store/postgres"
	redisstore "country-trivia/internal/store/redis"
	"country-trivia/internal/user"
)

// Application aggregates shared infrastructure (stores, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, stores and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("storage_backend", cfg.Storage.Backend).Msg("starting application bootstrap")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// Users and play history live on the configured durable backend;
	// sessions, preferences and snapshots always live in Redis.
	var (
		pool         *pgxpool.Pool
		users        user.Store
		historyStore history.Store
		ping         func(ctx context.Context) error
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)
		p, err := pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		pool = p
		users = pgstore.NewUserStore(pool, logger)
		historyStore = pgstore.NewHistoryStore(pool, logger)
		ping = pool.Ping
	default:
		users = redisstore.NewUserStore(redisClient, logger)
		historyStore = redisstore.NewHistoryStore(redisClient, logger)
	}

	sessions := redisstore.NewSessionStore(redisClient, cfg.Game.SessionTTL, logger)
	prefs := redisstore.NewPrefStore(redisClient)
	snapshots := redisstore.NewSnapshotStore(redisClient, logger)

	catalogClient := external.NewRESTCountriesClient(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.FetchTimeout})
	catalogCache := country.NewCache(redisClient, cfg.Catalog.CacheTTL)
	catalogSvc := country.NewService(catalogClient, catalogCache, logger)

	ledger := history.NewLedger(historyStore, cfg.Game.HistoryLimit)
	statsSvc := stats.NewService(users, logger)

	authSvc := auth.NewService(users, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			Secret: []byte(cfg.Security.JWTSecret),
			Issuer: cfg.Name,
		},
	}, logger)
	authHandlers := auth.NewHTTPHandlers(authSvc, logger)

	gameSvc := game.NewService(game.ServiceOptions{
		Catalog:   catalogSvc,
		Sessions:  sessions,
		Stats:     statsSvc,
		Ledger:    ledger,
		Prefs:     prefs,
		Snapshots: snapshots,
	}, logger)
	gameHandlers := game.NewHTTPHandlers(gameSvc, ledger, logger)
	gameWS := game.NewWSHandler(gameSvc, func(token string) (string, error) {
		claims, err := authSvc.ValidateToken(token)
		if err != nil {
			return "", err
		}
		return claims.Username, nil
	}, logger)

	leaderboardHandler := stats.NewHTTPHandler(statsSvc, cfg.Game.LeaderboardTopN, logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Dependencies{
		Auth:        authHandlers,
		AuthSvc:     authSvc,
		Game:        gameHandlers,
		GameWS:      gameWS,
		Leaderboard: leaderboardHandler,
		Redis:       redisClient,
		Ping:        ping,
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) shutdownTimeout() time.Duration {
	if a.cfg.GracefulShutdownTimeout > 0 {
		return a.cfg.GracefulShutdownTimeout
	}
	return 20 * time.Second
}
