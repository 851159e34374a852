package models

import "time"

// Roles recognised by the system. ATOs are the field agents who collect
// tax and upload entries; everyone else is a reporting/administration role.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleATO      = "ato"
	RoleChairman = "chairman"
	RoleDirector = "director"
	RoleUser     = "user"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	LGA          string    `json:"lga,omitempty"` // Local government area, optional
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ManagementRole reports whether role may read every agent's entries.
func ManagementRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReviewer, RoleChairman, RoleDirector:
		return true
	}
	return false
}

// ValidRole reports whether role is one of the recognised roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReviewer, RoleATO, RoleChairman, RoleDirector, RoleUser:
		return true
	}
	return false
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	LGA      string `json:"lga,omitempty"`
}

// CreateATORequest creates an ATO together with its collection target
type CreateATORequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	LGA          string  `json:"lga,omitempty"`
	TargetAmount float64 `json:"target_amount"`
}

// UpdateUserRequest represents the request body for updating a user.
// Empty fields are left unchanged.
type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	LGA      string `json:"lga,omitempty"`
}
