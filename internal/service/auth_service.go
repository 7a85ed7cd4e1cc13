package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// AuthService coordinates login.
type AuthService struct {
	users          repository.UserRepository
	tokenMgr       *auth.TokenManager
	allowPlaintext bool
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User  domain.UserSummary
	Token domain.Token
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:          users,
		tokenMgr:       tokens,
		allowPlaintext: cfg.AllowPlaintextPasswords,
	}
}

// Login authenticates by login id (trimmed, case-insensitive) and password.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(loginID))
	if normalized == "" || password == "" {
		return nil, errorutil.NewValidationError("Login ID and password are required", nil)
	}

	user, err := s.users.GetByLoginID(ctx, normalized)
	if err != nil {
		if errorutil.IsNoRows(err) {
			return nil, errorutil.NewUnauthorized("Invalid login ID")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password, s.allowPlaintext) {
		return nil, errorutil.NewUnauthorized("Invalid password")
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{User: user.Summary(), Token: token}, nil
}
