package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"country-trivia/internal/auth"
	"country-trivia/internal/country"
	"country-trivia/internal/game/scoring"
	"country-trivia/internal/history"
	httperrors "country-trivia/pkg/http/errors"
)

// HTTPHandlers exposes the gameplay REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	ledger *history.Ledger
	logger zerolog.Logger
}

// NewHTTPHandlers constructs gameplay HTTP handlers.
func NewHTTPHandlers(svc *Service, ledger *history.Ledger, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		ledger: ledger,
		logger: logger.With().Str("component", "game_http").Logger(),
	}
}

type startRequest struct {
	Tier string `json:"tier"`
}

// Start handles POST /v1/games. The tier is optional; an absent tier uses
// the stored preference.
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	if username == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req startRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body means default tier
	}

	var tier country.Tier
	if req.Tier != "" {
		parsed, err := country.ParseTier(req.Tier)
		if err != nil {
			httperrors.RespondValidation(w, httperrors.ErrCodeUnknownTier, "Tier must be easy, medium or hard", "tier")
			return
		}
		tier = parsed
	}

	session, err := h.svc.Start(r.Context(), username, tier)
	if err != nil {
		switch {
		case errors.Is(err, country.ErrUnavailable):
			httperrors.RespondBadGateway(w, httperrors.ErrCodeCatalogUnavailable, "Country catalog is unavailable, try again")
		case errors.Is(err, ErrNoCountries):
			httperrors.Respond(w, http.StatusServiceUnavailable, httperrors.ErrCodeGameStartFailed, "No countries available to play")
		default:
			h.logger.Error().Err(err).Msg("game start failed")
			httperrors.RespondInternal(w, "Game start failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, View(session))
}

// Get handles GET /v1/games/{id}.
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadOwnSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, View(session))
}

// Answer handles POST /v1/games/{id}/answer.
func (h *HTTPHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadOwnSession(w, r)
	if !ok {
		return
	}

	var guess scoring.Guess
	if err := json.NewDecoder(r.Body).Decode(&guess); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	session, _, err := h.svc.SubmitAnswer(r.Context(), session.ID, guess)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, View(session))
}

// Next handles POST /v1/games/{id}/next.
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadOwnSession(w, r)
	if !ok {
		return
	}

	session, err := h.svc.Advance(r.Context(), session.ID)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, View(session))
}

// History handles GET /v1/users/me/history?limit=10, most recent first.
func (h *HTTPHandlers) History(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	if username == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	limit := 10
	if q := r.URL.Query().Get("limit"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 && parsed <= history.DefaultLimit {
			limit = parsed
		}
	}

	records, err := h.ledger.Recent(r.Context(), username, limit)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", username).Msg("history fetch failed")
		httperrors.Respond(w, http.StatusInternalServerError, httperrors.ErrCodeHistoryFetchFailed, "History fetch failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username": username,
		"games":    records,
	})
}

// loadOwnSession resolves {id}, enforces ownership and writes the error
// response on failure.
func (h *HTTPHandlers) loadOwnSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	username := auth.UsernameFromContext(r.Context())
	if username == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return nil, false
	}

	session, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondGameError(w, err)
		return nil, false
	}
	if session.Username != username {
		httperrors.RespondNotFound(w, httperrors.ErrCodeGameNotFound, "Game not found")
		return nil, false
	}
	return session, true
}

func (h *HTTPHandlers) respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeGameNotFound, "Game not found")
	case errors.Is(err, ErrInvalidTransition):
		httperrors.RespondConflict(w, httperrors.ErrCodeInvalidTransition, "Operation not valid in the current game phase")
	default:
		h.logger.Error().Err(err).Msg("game operation failed")
		httperrors.RespondInternal(w, "Game operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
