package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserStatus enumerates account states.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User represents an authenticated account within the platform.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Country      string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBlocked reports whether the account is barred from campaign and donation
// actions.
func (u User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}
