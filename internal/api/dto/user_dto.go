package dto

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// LoginRequest payload for login. Presence is checked by the auth service.
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// UserCreateRequest payload for HR account creation.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	LoginID  string `json:"loginId" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER HR STAFF"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID          int64           `json:"id"`
	LoginID     string          `json:"loginId"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        domain.UserRole `json:"role"`
	TicketCount *int            `json:"ticketCount,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LoginResponse is the logged-in user without credentials, plus the access token.
type LoginResponse struct {
	ID        int64           `json:"id"`
	LoginID   string          `json:"loginId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// UserSummaryResponse is the public projection of a user.
type UserSummaryResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email,omitempty"`
	Role  domain.UserRole `json:"role,omitempty"`
}

// NewUserResponse maps a user; withCount adds the ticket count used by the HR list.
func NewUserResponse(u domain.User, withCount bool) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		LoginID:   u.LoginID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if withCount {
		count := u.TicketCount
		resp.TicketCount = &count
	}
	return resp
}

// NewLoginResponse flattens the user summary next to the token.
func NewLoginResponse(u domain.UserSummary, token domain.Token) LoginResponse {
	return LoginResponse{
		ID:        u.ID,
		LoginID:   u.LoginID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}
}

// NewOwnerSummary keeps {id, name, email} for ticket owners.
func NewOwnerSummary(u *domain.UserSummary) *UserSummaryResponse {
	if u == nil {
		return nil
	}
	return &UserSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NewSenderSummary keeps {id, name, role} for message senders.
func NewSenderSummary(u *domain.UserSummary) *UserSummaryResponse {
	if u == nil {
		return nil
	}
	return &UserSummaryResponse{ID: u.ID, Name: u.Name, Role: u.Role}
}
