// Package admin authenticates storefront administrators and gates the admin
// surface behind a signed token.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aheyecare/internal/common"
	"aheyecare/internal/config"
	"aheyecare/internal/dbmysql"
	"aheyecare/internal/logging"
)

type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AdminService interface {
	Login(ctx context.Context, username, password string, remember bool) (*Session, error)
	// Authenticate validates a token and returns the admin username.
	Authenticate(token string) (string, error)
	// EnsureDefaultAdmin creates the configured admin when no admin exists.
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
}

type adminService struct {
	repo        AdminRepository
	tokens      *common.TokenManager
	lifetime    time.Duration
	rememberFor time.Duration
}

func NewAdminService(repo AdminRepository, tokens *common.TokenManager, auth config.AuthConfig) AdminService {
	lifetime := auth.SessionLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	rememberFor := auth.RememberFor
	if rememberFor <= 0 {
		rememberFor = 7 * 24 * time.Hour
	}
	return &adminService{repo: repo, tokens: tokens, lifetime: lifetime, rememberFor: rememberFor}
}

func (s *adminService) Login(ctx context.Context, username, password string, remember bool) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.Validation("username and password are required")
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, common.Unauthorized("invalid username or password")
		}
		return nil, common.Persistence("failed to load admin", err)
	}

	if err := common.CheckPassword(password, admin.Password); err != nil {
		logging.Ctx(ctx).Warn().Str("username", username).Msg("admin login failed")
		return nil, common.Unauthorized("invalid username or password")
	}

	ttl := s.lifetime
	if remember {
		ttl = s.rememberFor
	}
	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, admin.Username, ttl)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("username", username).Bool("remember", remember).Msg("admin logged in")
	return &Session{Token: token, Username: admin.Username, ExpiresAt: expiresAt}, nil
}

func (s *adminService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", common.Unauthorized("missing token")
	}
	claims, err := s.tokens.ValidToken(token)
	if err != nil {
		return "", common.Unauthorized("invalid or expired token")
	}
	return claims.Username, nil
}

func (s *adminService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if err := common.ValidateUsername(username); err != nil {
		return fmt.Errorf("default admin: %w", err)
	}
	if err := common.ValidatePassword(password); err != nil {
		return fmt.Errorf("default admin: %w", err)
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, &dbmysql.Admin{Username: username, Password: hashed}); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("username", username).Msg("default admin created")
	return nil
}
