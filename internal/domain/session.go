package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrBlankDifficulty     = errors.New("difficulty cannot be blank")
	ErrNoQuestions         = errors.New("session needs at least one question")
	ErrSessionCompleted    = errors.New("session is already completed")
	ErrQuestionOutOfRange  = errors.New("question index is out of range")
	ErrAnswerOutOfOrder    = errors.New("questions must be answered in order")
	ErrCorruptSessionState = errors.New("session state does not decode into a valid session")
)

// GameSession is one player's run through a fixed, ordered list of questions.
// Answers are appended strictly in question order; once every question is
// answered the session flips to completed and rejects further submissions.
type GameSession struct {
	difficulty string
	questions  []*Question
	answers    []*Answer
	startedAt  time.Time
	endedAt    time.Time
	completed  bool
}

// NewGameSession builds an in-progress session. A blank difficulty label or
// an empty question list is a caller bug and fails construction.
func NewGameSession(difficulty string, questions []*Question) (*GameSession, error) {
	if isBlank(difficulty) {
		return nil, ErrBlankDifficulty
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	qs := make([]*Question, len(questions))
	copy(qs, questions)

	return &GameSession{
		difficulty: difficulty,
		questions:  qs,
		startedAt:  time.Now(),
	}, nil
}

// SubmitAnswer records the player's selection for the question at
// questionIndex. Submissions are rejected when the session is completed, the
// index is out of range, or the index is not the next unanswered question.
// Answering the last question completes the session and fixes the end
// timestamp.
func (s *GameSession) SubmitAnswer(questionIndex, selectedIndex int) (*Answer, error) {
	if s.completed {
		return nil, ErrSessionCompleted
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		return nil, ErrQuestionOutOfRange
	}
	if questionIndex != len(s.answers) {
		return nil, ErrAnswerOutOfOrder
	}

	answer, err := NewAnswer(s.questions[questionIndex], selectedIndex)
	if err != nil {
		return nil, err
	}
	s.answers = append(s.answers, answer)

	if len(s.answers) == len(s.questions) {
		s.completed = true
		s.endedAt = time.Now()
	}
	return answer, nil
}

// Difficulty returns the session's difficulty label.
func (s *GameSession) Difficulty() string { return s.difficulty }

// Questions returns a copy of the session's question list.
func (s *GameSession) Questions() []*Question {
	qs := make([]*Question, len(s.questions))
	copy(qs, s.questions)
	return qs
}

// Answers returns a copy of the answers recorded so far.
func (s *GameSession) Answers() []*Answer {
	as := make([]*Answer, len(s.answers))
	copy(as, s.answers)
	return as
}

// QuestionCount returns the number of questions in the session.
func (s *GameSession) QuestionCount() int { return len(s.questions) }

// IsCompleted reports whether every question has been answered.
func (s *GameSession) IsCompleted() bool { return s.completed }

// StartedAt returns the session start timestamp.
func (s *GameSession) StartedAt() time.Time { return s.startedAt }

// EndedAt returns the completion timestamp; the zero time while in progress.
func (s *GameSession) EndedAt() time.Time { return s.endedAt }

// Duration returns elapsed play time: end minus start once completed, time
// since start otherwise.
func (s *GameSession) Duration() time.Duration {
	if s.completed {
		return s.endedAt.Sub(s.startedAt)
	}
	return time.Since(s.startedAt)
}

// CurrentQuestionIndex returns the index of the next unanswered question, or
// -1 when the session is completed.
func (s *GameSession) CurrentQuestionIndex() int {
	if s.completed {
		return -1
	}
	return len(s.answers)
}

// CurrentQuestion returns the next unanswered question, or nil when the
// session is completed.
func (s *GameSession) CurrentQuestion() *Question {
	idx := s.CurrentQuestionIndex()
	if idx < 0 {
		return nil
	}
	return s.questions[idx]
}

// TotalScore sums the score contributions of all recorded answers.
func (s *GameSession) TotalScore() float64 {
	var total float64
	for _, a := range s.answers {
		total += a.ScoreContribution()
	}
	return total
}

// CorrectCount returns the number of correct answers so far.
func (s *GameSession) CorrectCount() int {
	count := 0
	for _, a := range s.answers {
		if a.IsCorrect() {
			count++
		}
	}
	return count
}

// IncorrectCount returns the number of incorrect answers so far.
func (s *GameSession) IncorrectCount() int {
	return len(s.answers) - s.CorrectCount()
}

// PercentageScore returns correct answers over total questions, as a
// percentage.
func (s *GameSession) PercentageScore() float64 {
	return float64(s.CorrectCount()) / float64(len(s.questions)) * 100.0
}

// MaxPossibleScore is the score of an all-correct run.
func (s *GameSession) MaxPossibleScore() float64 {
	return float64(len(s.questions)) * ScoreCorrect
}

// MinPossibleScore is the score of an all-incorrect run.
func (s *GameSession) MinPossibleScore() float64 {
	return float64(len(s.questions)) * ScoreIncorrect
}

// sessionState is the wire form of a GameSession, used to park in-progress
// sessions in Redis between answer submissions.
type sessionState struct {
	Difficulty string          `json:"difficulty"`
	Questions  []questionState `json:"questions"`
	Answers    []answerState   `json:"answers"`
	StartedAt  time.Time       `json:"started_at"`
	EndedAt    time.Time       `json:"ended_at,omitempty"`
	Completed  bool            `json:"completed"`
}

type questionState struct {
	Number       int      `json:"number"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

type answerState struct {
	SelectedIndex int       `json:"selected_index"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// MarshalJSON encodes the full session state, including question answers.
// The payload is for trusted storage only and must never be sent to players.
func (s *GameSession) MarshalJSON() ([]byte, error) {
	state := sessionState{
		Difficulty: s.difficulty,
		Questions:  make([]questionState, 0, len(s.questions)),
		Answers:    make([]answerState, 0, len(s.answers)),
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
		Completed:  s.completed,
	}
	for _, q := range s.questions {
		state.Questions = append(state.Questions, questionState{
			Number:       q.Number(),
			Text:         q.Text(),
			Options:      q.Options(),
			CorrectIndex: q.CorrectIndex(),
		})
	}
	for _, a := range s.answers {
		state.Answers = append(state.Answers, answerState{
			SelectedIndex: a.SelectedIndex(),
			SubmittedAt:   a.SubmittedAt(),
		})
	}
	return json.Marshal(state)
}

// UnmarshalJSON rebuilds a session from its stored state, revalidating every
// question and answer on the way in.
func (s *GameSession) UnmarshalJSON(data []byte) error {
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSessionState, err)
	}
	if isBlank(state.Difficulty) || len(state.Questions) == 0 {
		return ErrCorruptSessionState
	}
	if len(state.Answers) > len(state.Questions) {
		return ErrCorruptSessionState
	}
	// The completed flag is derived state and must agree with the answers
	if state.Completed != (len(state.Answers) == len(state.Questions)) {
		return ErrCorruptSessionState
	}

	questions := make([]*Question, 0, len(state.Questions))
	for _, qs := range state.Questions {
		q, err := NewQuestion(qs.Number, qs.Text, qs.Options, qs.CorrectIndex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptSessionState, err)
		}
		questions = append(questions, q)
	}

	answers := make([]*Answer, 0, len(state.Answers))
	for i, as := range state.Answers {
		a, err := NewAnswer(questions[i], as.SelectedIndex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptSessionState, err)
		}
		a.submittedAt = as.SubmittedAt
		answers = append(answers, a)
	}

	s.difficulty = state.Difficulty
	s.questions = questions
	s.answers = answers
	s.startedAt = state.StartedAt
	s.endedAt = state.EndedAt
	s.completed = state.Completed
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
