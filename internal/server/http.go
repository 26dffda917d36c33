package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"country-trivia/internal/auth"
	"country-trivia/internal/config"
	"country-trivia/internal/game"
	"country-trivia/internal/stats"
)

// Dependencies carries the handler set the HTTP server exposes.
type Dependencies struct {
	Auth        *auth.HTTPHandlers
	AuthSvc     *auth.Service
	Game        *game.HTTPHandlers
	GameWS      *game.WSHandler
	Leaderboard *stats.HTTPHandler

	Redis *redis.Client
	// Ping verifies the durable backend; nil when the backend is Redis-only.
	Ping func(ctx context.Context) error
}

// NewHTTPServer wires all routes for the API service. Every /v1 route goes
// through the auth middleware; gameplay and profile routes additionally
// require a validated identity.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/auth/register", deps.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", deps.Auth.Login)

	authed := func(h http.HandlerFunc) http.Handler { return auth.RequireAuth(h) }

	mux.Handle("GET /v1/users/me", authed(deps.Auth.GetMe))
	mux.Handle("GET /v1/users/me/history", authed(deps.Game.History))

	mux.Handle("POST /v1/games", authed(deps.Game.Start))
	mux.Handle("GET /v1/games/{id}", authed(deps.Game.Get))
	mux.Handle("POST /v1/games/{id}/answer", authed(deps.Game.Answer))
	mux.Handle("POST /v1/games/{id}/next", authed(deps.Game.Next))

	mux.HandleFunc("GET /v1/leaderboards/{tier}", deps.Leaderboard.HandleGet)

	// WebSocket auth uses a token query parameter, not the Bearer header.
	mux.HandleFunc("GET /ws/games", deps.GameWS.HandleWebSocket)

	handler := auth.Middleware(deps.AuthSvc, logger)(mux)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, deps Dependencies) error {
	if deps.Redis != nil {
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	if deps.Ping != nil {
		return deps.Ping(ctx)
	}
	return nil
}
