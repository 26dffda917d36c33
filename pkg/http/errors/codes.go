package errors

// Error codes for standardized error responses.
const (
	// Authentication
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeLoginFailed            = "login_failed"
	ErrCodeRegistrationFailed     = "registration_failed"
	ErrCodeUsernameTaken          = "username_taken"

	// Validation
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"
	ErrCodeUnknownTier    = "unknown_tier"

	// Gameplay
	ErrCodeGameNotFound       = "game_not_found"
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeGameStartFailed    = "game_start_failed"
	ErrCodeCatalogUnavailable = "catalog_unavailable"

	// Resources
	ErrCodeNotFound               = "not_found"
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
	ErrCodeHistoryFetchFailed     = "history_fetch_failed"

	// Server
	ErrCodeInternalError = "internal_error"
)
