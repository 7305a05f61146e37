package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role gates which lifecycle operations a caller may invoke. It is fixed at
// registration.
type Role string

const (
	RoleUser   Role = "USER"
	RoleDriver Role = "DRIVER"
)

// IsValid validates the role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleDriver
}

// User represents a registered account, either a passenger or a driver.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// Store defines the interface for user data access
type Store interface {
	// Create creates a new user; returns ErrUsernameTaken on duplicates.
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)
}
