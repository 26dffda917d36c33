package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"country-trivia/internal/country"
	httperrors "country-trivia/pkg/http/errors"
)

// HTTPHandler exposes REST endpoints for leaderboard queries.
type HTTPHandler struct {
	svc    *Service
	topN   int
	logger zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, topN int, logger zerolog.Logger) *HTTPHandler {
	if topN <= 0 {
		topN = 10
	}
	return &HTTPHandler{
		svc:    svc,
		topN:   topN,
		logger: logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds with the leaderboard for one tier.
// Route: GET /v1/leaderboards/{tier}?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/leaderboards/"), "/")
	tier, err := country.ParseTier(raw)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeUnknownTier, "unknown leaderboard tier")
		return
	}

	limit := h.topN
	if q := r.URL.Query().Get("limit"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.svc.Leaderboard(r.Context(), tier, limit)
	if err != nil {
		h.logger.Warn().Err(err).Str("tier", string(tier)).Msg("leaderboard fetch failed")
		httperrors.RespondInternal(w, "failed to fetch leaderboard")
		return
	}

	writeJSON(w, map[string]interface{}{
		"tier":        tier,
		"top":         entries,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
