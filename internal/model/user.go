// Package model defines domain entities for the application.
package model

import "time"

// Role constants for user authorization.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleMember, RoleAdmin}

// RoleIsValid reports whether role is a known role.
func RoleIsValid(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

// User represents an account that can call the API.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserInfo is the public representation of a user.
type UserInfo struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// ToInfo converts a User to its public form.
func (u *User) ToInfo() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// AuthContext holds authenticated request context.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin returns true if the authenticated caller holds the admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}
