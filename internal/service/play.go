package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/wordageddon/wordageddon/internal/domain"
	"github.com/wordageddon/wordageddon/internal/generator"
	"github.com/wordageddon/wordageddon/internal/textindex"
	"github.com/wordageddon/wordageddon/internal/websocket"
)

// CorpusProvider yields the live frequency index and the indexed document
// names.
type CorpusProvider interface {
	CurrentIndex() (*textindex.Index, []string)
}

// PlayStore parks in-progress plays between requests.
type PlayStore interface {
	StorePlay(ctx context.Context, play *domain.Play) error
	GetPlay(ctx context.Context, playID string) (*domain.Play, error)
	GetPlayByUser(ctx context.Context, userID string) (*domain.Play, error)
	DeletePlay(ctx context.Context, play *domain.Play) error
}

// Broadcaster fans play events out to spectators and hangs up on them once
// the play is over.
type Broadcaster interface {
	BroadcastToPlay(playID string, eventType string, payload []byte)
	ClosePlay(playID string)
}

// PlayService orchestrates a playthrough: it restricts the corpus per
// difficulty, generates the question list, drives the session state machine
// and persists the result once the session completes.
type PlayService struct {
	corpus       CorpusProvider
	plays        PlayStore
	sessionRepo  domain.SessionRepository
	userService  *UserService
	hub          Broadcaster
	difficulties map[string]domain.DifficultySettings
}

// NewPlayService creates a new play service with the built-in difficulty
// tiers.
func NewPlayService(corpus CorpusProvider, plays PlayStore, sessionRepo domain.SessionRepository, userService *UserService, hub Broadcaster) *PlayService {
	return NewPlayServiceWithTiers(corpus, plays, sessionRepo, userService, hub, domain.DefaultDifficulties())
}

// NewPlayServiceWithTiers is NewPlayService with a caller-supplied tier table.
func NewPlayServiceWithTiers(corpus CorpusProvider, plays PlayStore, sessionRepo domain.SessionRepository, userService *UserService, hub Broadcaster, tiers map[string]domain.DifficultySettings) *PlayService {
	return &PlayService{
		corpus:       corpus,
		plays:        plays,
		sessionRepo:  sessionRepo,
		userService:  userService,
		hub:          hub,
		difficulties: tiers,
	}
}

// Difficulties returns the configured tier table.
func (s *PlayService) Difficulties() map[string]domain.DifficultySettings {
	tiers := make(map[string]domain.DifficultySettings, len(s.difficulties))
	for name, settings := range s.difficulties {
		tiers[name] = settings
	}
	return tiers
}

// StartPlay creates a session for the given difficulty: it draws the in-play
// documents, generates the full question list up front and parks the play.
func (s *PlayService) StartPlay(ctx context.Context, userID, difficulty string) (*domain.Play, error) {
	settings, ok := s.difficulties[difficulty]
	if !ok {
		return nil, domain.ErrUnknownDifficulty
	}

	index, docs := s.corpus.CurrentIndex()
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	inPlay := drawDocuments(docs, settings.Documents)

	gen := generator.New(index, inPlay)
	gen.ResetTracking()

	questions := make([]*domain.Question, 0, settings.Questions)
	for i := 1; i <= settings.Questions; i++ {
		questions = append(questions, gen.Question(i))
	}

	session, err := domain.NewGameSession(difficulty, questions)
	if err != nil {
		return nil, err
	}

	play := &domain.Play{
		ID:        uuid.NewString(),
		UserID:    userID,
		Documents: inPlay,
		Session:   session,
		CreatedAt: time.Now(),
	}

	if err := s.plays.StorePlay(ctx, play); err != nil {
		return nil, err
	}

	s.broadcast(play.ID, websocket.EventPlayStarted, map[string]any{
		"play_id":    play.ID,
		"difficulty": difficulty,
		"questions":  session.QuestionCount(),
	})

	return play, nil
}

// GetPlay retrieves a parked play.
func (s *PlayService) GetPlay(ctx context.Context, playID string) (*domain.Play, error) {
	return s.plays.GetPlay(ctx, playID)
}

// CurrentPlayForUser retrieves a user's in-progress play, if any.
func (s *PlayService) CurrentPlayForUser(ctx context.Context, userID string) (*domain.Play, error) {
	return s.plays.GetPlayByUser(ctx, userID)
}

// SubmitResult is what one answer submission yields.
type SubmitResult struct {
	Answer     *domain.Answer
	TotalScore float64
	Completed  bool
	Summary    *domain.SessionSummary
}

// SubmitAnswer scores one answer against a parked play. Completing the last
// question persists the session, folds it into the player's statistics and
// evicts the play from the store.
func (s *PlayService) SubmitAnswer(ctx context.Context, playID string, questionIndex, selectedIndex int) (*SubmitResult, error) {
	play, err := s.plays.GetPlay(ctx, playID)
	if err != nil {
		return nil, err
	}

	answer, err := play.Session.SubmitAnswer(questionIndex, selectedIndex)
	if err != nil {
		return nil, err
	}

	s.broadcast(play.ID, websocket.EventAnswerScored, map[string]any{
		"play_id":        play.ID,
		"question_index": questionIndex,
		"correct":        answer.IsCorrect(),
		"score":          play.Session.TotalScore(),
	})

	total := play.Session.TotalScore()

	if !play.Session.IsCompleted() {
		if err := s.plays.StorePlay(ctx, play); err != nil {
			return nil, err
		}
		return &SubmitResult{Answer: answer, TotalScore: total}, nil
	}

	summary, err := s.finishPlay(ctx, play)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Answer: answer, TotalScore: total, Completed: true, Summary: summary}, nil
}

// Summary retrieves a persisted session summary.
func (s *PlayService) Summary(ctx context.Context, sessionID string) (*domain.SessionSummary, error) {
	return s.sessionRepo.GetSummary(ctx, sessionID)
}

// History lists a user's persisted sessions, newest first.
func (s *PlayService) History(ctx context.Context, userID string, limit int) ([]*domain.SessionSummary, error) {
	return s.sessionRepo.ListByUser(ctx, userID, limit)
}

// Leaderboard returns the all-time ranking.
func (s *PlayService) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	return s.sessionRepo.Leaderboard(ctx, limit)
}

func (s *PlayService) finishPlay(ctx context.Context, play *domain.Play) (*domain.SessionSummary, error) {
	sess := play.Session

	summary := &domain.SessionSummary{
		ID:             play.ID,
		UserID:         play.UserID,
		Difficulty:     sess.Difficulty(),
		TotalQuestions: sess.QuestionCount(),
		CorrectAnswers: sess.CorrectCount(),
		Score:          sess.TotalScore(),
		Percentage:     sess.PercentageScore(),
		Duration:       sess.Duration(),
		CreatedAt:      sess.StartedAt(),
	}

	answers := make([]domain.AnswerRecord, 0, sess.QuestionCount())
	for i, a := range sess.Answers() {
		answers = append(answers, domain.AnswerRecord{
			SessionID:     play.ID,
			QuestionIndex: i,
			QuestionText:  a.Question().Text(),
			SelectedText:  a.SelectedText(),
			Correct:       a.IsCorrect(),
			Score:         a.ScoreContribution(),
			SubmittedAt:   a.SubmittedAt(),
		})
	}

	if err := s.sessionRepo.SaveCompleted(ctx, summary, answers); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if err := s.userService.RecordResult(ctx, play.UserID, summary); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		// Anonymous plays carry no stats
	}

	if err := s.plays.DeletePlay(ctx, play); err != nil {
		// The play is persisted; a stale Redis entry only costs memory
		log.Printf("failed to evict completed play %s: %v", play.ID, err)
	}

	s.broadcast(play.ID, websocket.EventPlayCompleted, summary)
	s.hub.ClosePlay(play.ID)

	return summary, nil
}

func (s *PlayService) broadcast(playID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	s.hub.BroadcastToPlay(playID, eventType, data)
}

// drawDocuments picks up to n documents at random, preserving nothing of the
// source order beyond the draw itself.
func drawDocuments(docs []string, n int) []string {
	shuffled := make([]string, len(docs))
	copy(shuffled, docs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
