package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"country-trivia/internal/auth/jwt"
	"country-trivia/internal/user"
)

// Service handles registration, login and token validation. Usernames are
// unique case-insensitively; new accounts start with zeroed per-tier stats.
type Service struct {
	users    user.Store
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(users user.Store, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account and returns a signed token.
func (s *Service) Register(ctx context.Context, username, password string) (user.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return user.User{}, "", fmt.Errorf("username required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return user.User{}, "", err
	}

	u := user.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		Stats:        user.DefaultStats(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, "", err
	}

	token, err := s.tokenMgr.Generate(username)
	if err != nil {
		return user.User{}, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("user registered")
	return u, token, nil
}

// Login authenticates a username/password pair and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (user.User, string, error) {
	u, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, "", ErrInvalidCredentials
		}
		return user.User{}, "", err
	}
	if u.PasswordHash == "" || VerifyPassword(u.PasswordHash, password) != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokenMgr.Generate(u.Username)
	if err != nil {
		return user.User{}, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Str("username", u.Username).Msg("user logged in")
	return u, token, nil
}

// ValidateToken validates an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.Validate(tokenString)
}

// CurrentUser loads the full user record behind a validated token.
func (s *Service) CurrentUser(ctx context.Context, username string) (user.User, error) {
	return s.users.Get(ctx, username)
}
