package domain

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrPlayNotFound      = errors.New("play not found")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrEmptyCorpus       = errors.New("no indexed documents available for play")
)

// Difficulty labels of the built-in tiers.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DifficultySettings parameterizes one difficulty tier: how many questions a
// session has and how many documents are in play.
type DifficultySettings struct {
	Questions int `json:"questions"`
	Documents int `json:"documents"`
}

// DefaultDifficulties returns the built-in tier table.
func DefaultDifficulties() map[string]DifficultySettings {
	return map[string]DifficultySettings{
		DifficultyEasy:   {Questions: 3, Documents: 1},
		DifficultyMedium: {Questions: 5, Documents: 2},
		DifficultyHard:   {Questions: 10, Documents: 3},
	}
}

// Play is one active or finished playthrough: a GameSession plus the context
// that does not belong inside the scoring state machine (owner, in-play
// document IDs).
type Play struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Documents []string     `json:"documents"`
	Session   *GameSession `json:"session"`
	CreatedAt time.Time    `json:"created_at"`
}

// SessionSummary is the persisted record of a completed session, as stored
// in and reported from the relational store.
type SessionSummary struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Difficulty     string        `json:"difficulty"`
	TotalQuestions int           `json:"total_questions"`
	CorrectAnswers int           `json:"correct_answers"`
	Score          float64       `json:"score"`
	Percentage     float64       `json:"percentage"`
	Duration       time.Duration `json:"duration"`
	CreatedAt      time.Time     `json:"created_at"`
}

// AnswerRecord is the persisted form of one submitted answer.
type AnswerRecord struct {
	SessionID     string    `json:"session_id"`
	QuestionIndex int       `json:"question_index"`
	QuestionText  string    `json:"question_text"`
	SelectedText  string    `json:"selected_text"`
	Correct       bool      `json:"correct"`
	Score         float64   `json:"score"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// LeaderboardEntry is one row of the all-time ranking.
type LeaderboardEntry struct {
	Username    string  `json:"username"`
	TotalPoints float64 `json:"total_points"`
	GamesPlayed int     `json:"games_played"`
	BestScore   float64 `json:"best_score"`
	AvgPercent  float64 `json:"avg_percent"`
}

// SessionRepository defines the interface for persisting completed sessions.
type SessionRepository interface {
	// SaveCompleted stores a completed session summary and its answers.
	SaveCompleted(ctx context.Context, summary *SessionSummary, answers []AnswerRecord) error

	// GetSummary retrieves a stored session summary by ID.
	GetSummary(ctx context.Context, sessionID string) (*SessionSummary, error)

	// ListByUser retrieves a user's session history, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*SessionSummary, error)

	// Leaderboard returns the top users by accumulated score.
	Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}
