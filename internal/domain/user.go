package domain

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered player.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsAdmin      bool      `json:"is_admin"`
	Stats        UserStats `json:"stats"`
	LastLoginAt  time.Time `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserStats accumulates a player's results across sessions.
type UserStats struct {
	GamesPlayed    int     `json:"games_played"`
	TotalPoints    float64 `json:"total_points"`
	BestScore      float64 `json:"best_score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalAnswers   int     `json:"total_answers"`
}

// UserRepository defines the interface for user-related operations.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername retrieves a user by their username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByEmail retrieves a user by their email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates a user's information
	Update(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id string) error

	// UpdateStats updates a user's accumulated statistics
	UpdateStats(ctx context.Context, id string, stats UserStats) error
}
