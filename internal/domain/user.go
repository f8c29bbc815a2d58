// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"strings"
	"time"
)

// NormalizeEmail lower-cases and trims an email so lookups never miss on
// case. Applied on every write and every lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("User not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("Invalid password")
	// ErrUserAlreadyExists indicates that the email or phone is already registered.
	ErrUserAlreadyExists = errors.New("Email or phone is already in use")
)

// User holds registered user data.
type User struct {
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
