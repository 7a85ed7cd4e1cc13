package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// UserService backs the HR user directory.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// UserCreateInput is an HR account request.
type UserCreateInput struct {
	Name     string
	Email    string
	LoginID  string
	Password string
	Role     domain.UserRole
}

// ListUsers returns every account newest first with ticket counts.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListWithTicketCounts(ctx)
}

// CreateUser registers an account. Login ids are stored upper-cased.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	loginID := strings.ToUpper(strings.TrimSpace(input.LoginID))
	if name == "" || email == "" || loginID == "" || input.Password == "" {
		return nil, errorutil.NewValidationError("Name, email, login ID, and password are required", nil)
	}

	role := input.Role
	if role == "" {
		role = domain.UserRoleUser
	}
	if !role.Valid() {
		return nil, errorutil.NewValidationError("Invalid role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByLoginID(ctx, loginID); err == nil {
		return nil, loginTaken(loginID)
	} else if !errorutil.IsNoRows(err) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, emailTaken(email)
	} else if !errorutil.IsNoRows(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		LoginID:      loginID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errorutil.IsUniqueViolation(err) {
			if strings.Contains(errorutil.ConstraintName(err), "email") {
				return nil, emailTaken(email)
			}
			return nil, loginTaken(loginID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func loginTaken(loginID string) error {
	return errorutil.NewConflict(fmt.Sprintf("Login ID %q is already taken", loginID), map[string]any{"loginId": loginID})
}

func emailTaken(email string) error {
	return errorutil.NewConflict("A user with this email already exists", map[string]any{"email": email})
}
