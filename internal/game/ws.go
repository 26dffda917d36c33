package game

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"country-trivia/internal/country"
	"country-trivia/internal/game/scoring"
)

// TokenValidator resolves a raw token to a username (implemented by
// auth.Service via a small adapter in the server wiring).
type TokenValidator func(token string) (string, error)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client -> server message types.
const (
	wsMsgStart  = "start"
	wsMsgAnswer = "answer"
	wsMsgNext   = "next"
)

// Server -> client message types.
const (
	wsMsgState = "state"
	wsMsgError = "error"
)

type wsClientMessage struct {
	Type       string `json:"type"`
	Tier       string `json:"tier,omitempty"`
	Name       string `json:"name,omitempty"`
	Capital    string `json:"capital,omitempty"`
	Population string `json:"population,omitempty"`
}

type wsServerMessage struct {
	Type    string       `json:"type"`
	Session *SessionView `json:"session,omitempty"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// WSHandler drives a full game over one WebSocket connection: the client
// sends start/answer/next messages, the server answers with session state.
type WSHandler struct {
	svc      *Service
	validate TokenValidator
	logger   zerolog.Logger
}

func NewWSHandler(svc *Service, validate TokenValidator, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		svc:      svc,
		validate: validate,
		logger:   logger.With().Str("component", "game_ws").Logger(),
	}
}

// HandleWebSocket handles GET /ws/games?token=...
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	username, err := h.validate(r.URL.Query().Get("token"))
	if err != nil || username == "" {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.logger.Info().Str("username", username).Msg("websocket game connected")
	h.serve(r.Context(), conn, username)
}

func (h *WSHandler) serve(ctx context.Context, conn *websocket.Conn, username string) {
	var sessionID string

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn().Err(err).Str("username", username).Msg("websocket read failed")
			}
			return
		}

		var session *Session
		var err error
		switch msg.Type {
		case wsMsgStart:
			var tier country.Tier
			if msg.Tier != "" {
				if tier, err = country.ParseTier(msg.Tier); err != nil {
					h.writeError(conn, "unknown_tier", "tier must be easy, medium or hard")
					continue
				}
			}
			session, err = h.svc.Start(ctx, username, tier)
			if err == nil {
				sessionID = session.ID
			}

		case wsMsgAnswer:
			if sessionID == "" {
				h.writeError(conn, "no_game", "start a game first")
				continue
			}
			session, _, err = h.svc.SubmitAnswer(ctx, sessionID, scoring.Guess{
				Name:       msg.Name,
				Capital:    msg.Capital,
				Population: msg.Population,
			})

		case wsMsgNext:
			if sessionID == "" {
				h.writeError(conn, "no_game", "start a game first")
				continue
			}
			session, err = h.svc.Advance(ctx, sessionID)

		default:
			h.writeError(conn, "unknown_message_type", "unknown message type "+msg.Type)
			continue
		}

		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidTransition):
				h.writeError(conn, "invalid_transition", "operation not valid in the current phase")
			case errors.Is(err, ErrSessionNotFound):
				h.writeError(conn, "game_not_found", "game not found")
				sessionID = ""
			case errors.Is(err, country.ErrUnavailable):
				h.writeError(conn, "catalog_unavailable", "country catalog unavailable, try again")
			default:
				h.logger.Error().Err(err).Str("username", username).Msg("websocket game operation failed")
				h.writeError(conn, "internal_error", "game operation failed")
			}
			continue
		}

		view := View(session)
		if err := conn.WriteJSON(wsServerMessage{Type: wsMsgState, Session: &view}); err != nil {
			h.logger.Warn().Err(err).Str("username", username).Msg("websocket write failed")
			return
		}
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, code, message string) {
	_ = conn.WriteJSON(wsServerMessage{Type: wsMsgError, Code: code, Message: message})
}
