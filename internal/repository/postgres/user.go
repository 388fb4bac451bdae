package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordageddon/wordageddon/internal/domain"
)

// UserRepository implements domain.UserRepository
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, first_name, last_name, is_admin,
			games_played, total_points, best_score, correct_answers, total_answers,
			last_login_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
		user.Stats.GamesPlayed,
		user.Stats.TotalPoints,
		user.Stats.BestScore,
		user.Stats.CorrectAnswers,
		user.Stats.TotalAnswers,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, is_admin,
	games_played, total_points, best_score, correct_answers, total_answers,
	last_login_at, created_at, updated_at
`

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user := &domain.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsAdmin,
		&user.Stats.GamesPlayed,
		&user.Stats.TotalPoints,
		&user.Stats.BestScore,
		&user.Stats.CorrectAnswers,
		&user.Stats.TotalAnswers,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

// Update updates a user's information
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, first_name = $4,
			last_name = $5, is_admin = $6, last_login_at = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`

	result, err := r.pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
		user.LastLoginAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateStats updates a user's accumulated statistics
func (r *UserRepository) UpdateStats(ctx context.Context, id string, stats domain.UserStats) error {
	query := `
		UPDATE users
		SET games_played = $1, total_points = $2, best_score = $3,
			correct_answers = $4, total_answers = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`

	result, err := r.pool.Exec(ctx, query,
		stats.GamesPlayed,
		stats.TotalPoints,
		stats.BestScore,
		stats.CorrectAnswers,
		stats.TotalAnswers,
		id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
