package model

import (
	"errors"
	"time"
)

// Role is an identity's access tier.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts s to a Role, rejecting anything outside {user, admin}.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User represents an identity in the database.
type User struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name      string `json:"name" validate:"notblank,max=100"`
	Username  string `json:"username" validate:"notblank,max=50"`
	Password  string `json:"password" validate:"required,max=72"`
	AdminCode string `json:"adminCode"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
	Role    Role   `json:"role"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the bearer token and the public identity fields.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses.
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// ToResponse strips the password hash.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}
}
