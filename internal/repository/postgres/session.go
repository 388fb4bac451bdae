package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordageddon/wordageddon/internal/domain"
)

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// SaveCompleted stores a completed session summary and its answers in one
// transaction.
func (r *SessionRepository) SaveCompleted(ctx context.Context, summary *domain.SessionSummary, answers []domain.AnswerRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO game_sessions (
			id, user_id, difficulty, total_questions, correct_answers,
			score, percentage, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		summary.ID,
		summary.UserID,
		summary.Difficulty,
		summary.TotalQuestions,
		summary.CorrectAnswers,
		summary.Score,
		summary.Percentage,
		summary.Duration.Milliseconds(),
		summary.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for _, a := range answers {
		_, err = tx.Exec(ctx, `
			INSERT INTO session_answers (
				session_id, question_index, question_text, selected_text,
				correct, score, submitted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			summary.ID,
			a.QuestionIndex,
			a.QuestionText,
			a.SelectedText,
			a.Correct,
			a.Score,
			a.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSummary retrieves a stored session summary by ID
func (r *SessionRepository) GetSummary(ctx context.Context, sessionID string) (*domain.SessionSummary, error) {
	query := `
		SELECT id, user_id, difficulty, total_questions, correct_answers,
			score, percentage, duration_ms, created_at
		FROM game_sessions
		WHERE id = $1
	`

	summary := &domain.SessionSummary{}
	var durationMs int64
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&summary.ID,
		&summary.UserID,
		&summary.Difficulty,
		&summary.TotalQuestions,
		&summary.CorrectAnswers,
		&summary.Score,
		&summary.Percentage,
		&durationMs,
		&summary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	summary.Duration = time.Duration(durationMs) * time.Millisecond
	return summary, nil
}

// ListByUser retrieves a user's session history, newest first
func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.SessionSummary, error) {
	query := `
		SELECT id, user_id, difficulty, total_questions, correct_answers,
			score, percentage, duration_ms, created_at
		FROM game_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.SessionSummary
	for rows.Next() {
		summary := &domain.SessionSummary{}
		var durationMs int64
		if err := rows.Scan(
			&summary.ID,
			&summary.UserID,
			&summary.Difficulty,
			&summary.TotalQuestions,
			&summary.CorrectAnswers,
			&summary.Score,
			&summary.Percentage,
			&durationMs,
			&summary.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		summary.Duration = time.Duration(durationMs) * time.Millisecond
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return summaries, nil
}

// Leaderboard returns the top users by accumulated score
func (r *SessionRepository) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	query := `
		SELECT u.username,
			COALESCE(SUM(s.score), 0) AS total_points,
			COUNT(s.id) AS games_played,
			COALESCE(MAX(s.score), 0) AS best_score,
			COALESCE(AVG(s.percentage), 0) AS avg_percent
		FROM users u
		JOIN game_sessions s ON s.user_id = u.id
		GROUP BY u.username
		ORDER BY total_points DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		entry := &domain.LeaderboardEntry{}
		if err := rows.Scan(
			&entry.Username,
			&entry.TotalPoints,
			&entry.GamesPlayed,
			&entry.BestScore,
			&entry.AvgPercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}
