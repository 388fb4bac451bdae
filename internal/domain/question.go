package domain

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrEmptyQuestionText   = errors.New("question text cannot be empty")
	ErrNoOptions           = errors.New("question needs at least two answer options")
	ErrInvalidCorrectIndex = errors.New("correct answer index is out of bounds")
	ErrInvalidOptionIndex  = errors.New("selected option index is out of bounds")
	ErrNilQuestion         = errors.New("answer requires a question")
)

// Score contributions of a single answer. The incorrect penalty is an
// inherited constant of the game's scoring scheme; keep it configurable here
// rather than deriving it elsewhere.
const (
	ScoreCorrect   = 1.0
	ScoreIncorrect = -0.33
)

// Question is one multiple-choice quiz question. Instances are immutable
// after construction: the options slice is copied in and only exposed by
// copy.
type Question struct {
	number       int
	text         string
	options      []string
	correctIndex int
}

// NewQuestion validates and builds a question. number is the 1-based position
// of the question within its session.
func NewQuestion(number int, text string, options []string, correctIndex int) (*Question, error) {
	if isBlank(text) {
		return nil, ErrEmptyQuestionText
	}
	if len(options) < 2 {
		return nil, ErrNoOptions
	}
	if correctIndex < 0 || correctIndex >= len(options) {
		return nil, ErrInvalidCorrectIndex
	}

	opts := make([]string, len(options))
	copy(opts, options)

	return &Question{
		number:       number,
		text:         text,
		options:      opts,
		correctIndex: correctIndex,
	}, nil
}

// Number returns the 1-based position of the question within its session.
func (q *Question) Number() int { return q.number }

// Text returns the question text.
func (q *Question) Text() string { return q.text }

// Options returns a copy of the ordered answer options.
func (q *Question) Options() []string {
	opts := make([]string, len(q.options))
	copy(opts, q.options)
	return opts
}

// OptionCount returns the number of answer options.
func (q *Question) OptionCount() int { return len(q.options) }

// Option returns the option text at index, or "" when out of bounds.
func (q *Question) Option(index int) string {
	if index < 0 || index >= len(q.options) {
		return ""
	}
	return q.options[index]
}

// CorrectIndex returns the index of the correct option.
func (q *Question) CorrectIndex() int { return q.correctIndex }

// IsCorrect reports whether the given option index is the correct answer.
func (q *Question) IsCorrect(index int) bool { return index == q.correctIndex }

// Answer records a player's response to a question. Correctness and score
// contribution are derived once at construction and never recomputed.
type Answer struct {
	question      *Question
	selectedIndex int
	correct       bool
	submittedAt   time.Time
}

// NewAnswer validates the selected option against the question's option list
// and derives the correctness flag.
func NewAnswer(question *Question, selectedIndex int) (*Answer, error) {
	if question == nil {
		return nil, ErrNilQuestion
	}
	if selectedIndex < 0 || selectedIndex >= question.OptionCount() {
		return nil, ErrInvalidOptionIndex
	}

	return &Answer{
		question:      question,
		selectedIndex: selectedIndex,
		correct:       question.IsCorrect(selectedIndex),
		submittedAt:   time.Now(),
	}, nil
}

// Question returns the question this answer responds to.
func (a *Answer) Question() *Question { return a.question }

// SelectedIndex returns the option index the player picked.
func (a *Answer) SelectedIndex() int { return a.selectedIndex }

// SelectedText returns the text of the picked option.
func (a *Answer) SelectedText() string { return a.question.Option(a.selectedIndex) }

// IsCorrect reports whether the picked option was the correct one.
func (a *Answer) IsCorrect() bool { return a.correct }

// SubmittedAt returns the answer creation timestamp.
func (a *Answer) SubmittedAt() time.Time { return a.submittedAt }

// ScoreContribution returns +1.0 for a correct answer and -0.33 otherwise.
func (a *Answer) ScoreContribution() float64 {
	if a.correct {
		return ScoreCorrect
	}
	return ScoreIncorrect
}
