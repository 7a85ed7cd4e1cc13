package domain

import "time"

// UserRole gates which dashboards a user can reach.
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
	UserRoleHR    UserRole = "HR"
	UserRoleStaff UserRole = "STAFF"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleUser, UserRoleHR, UserRoleStaff:
		return true
	}
	return false
}

// User is an account that can submit or handle complaints.
type User struct {
	ID           int64
	LoginID      string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	TicketCount  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the public projection embedded in tickets and messages.
type UserSummary struct {
	ID      int64
	LoginID string
	Name    string
	Email   string
	Role    UserRole
}

// Summary strips credentials from the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, LoginID: u.LoginID, Name: u.Name, Email: u.Email, Role: u.Role}
}
