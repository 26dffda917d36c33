package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"country-trivia/internal/user"
	httperrors "country-trivia/pkg/http/errors"
)

// HTTPHandlers exposes the auth REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers constructs HTTP handlers for auth.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "auth_http").Logger(),
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Username  string     `json:"username"`
	CreatedAt string     `json:"createdAt"`
	Stats     user.Stats `json:"stats"`
	Token     string     `json:"token"`
}

// Register handles POST /v1/auth/register.
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httperrors.RespondValidation(w, httperrors.ErrCodeMissingField, "Username and password are required", "username")
		return
	}

	u, token, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrAlreadyExists):
			httperrors.RespondConflict(w, httperrors.ErrCodeUsernameTaken, "Username already taken")
		case errors.Is(err, ErrPasswordTooShort):
			httperrors.RespondValidation(w, httperrors.ErrCodeInvalidRequest, err.Error(), "password")
		default:
			h.logger.Error().Err(err).Msg("registration failed")
			httperrors.Respond(w, http.StatusInternalServerError, httperrors.ErrCodeRegistrationFailed, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Stats:     u.Stats,
		Token:     token,
	})
}

// Login handles POST /v1/auth/login.
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	u, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid username or password")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		httperrors.Respond(w, http.StatusInternalServerError, httperrors.ErrCodeLoginFailed, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Stats:     u.Stats,
		Token:     token,
	})
}

// GetMe handles GET /v1/users/me.
func (h *HTTPHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())
	if username == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	u, err := h.svc.CurrentUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "User not found")
			return
		}
		h.logger.Error().Err(err).Msg("user lookup failed")
		httperrors.RespondInternal(w, "User lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":  u.Username,
		"createdAt": u.CreatedAt,
		"stats":     u.Stats,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
