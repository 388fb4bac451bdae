package domain

import (
	"errors"
	"testing"
)

func mustQuestion(t *testing.T, number int, text string, options []string, correct int) *Question {
	t.Helper()
	q, err := NewQuestion(number, text, options, correct)
	if err != nil {
		t.Fatalf("failed to build question: %v", err)
	}
	return q
}

func TestNewQuestionValidation(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		options []string
		correct int
		want    error
	}{
		{"blank text", "   ", []string{"a", "b"}, 0, ErrEmptyQuestionText},
		{"no options", "How many?", nil, 0, ErrNoOptions},
		{"single option", "How many?", []string{"a"}, 0, ErrNoOptions},
		{"correct index negative", "How many?", []string{"a", "b"}, -1, ErrInvalidCorrectIndex},
		{"correct index too big", "How many?", []string{"a", "b"}, 2, ErrInvalidCorrectIndex},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewQuestion(1, tc.text, tc.options, tc.correct); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuestionOptionsAreImmutable(t *testing.T) {
	source := []string{"3", "5", "7", "9"}
	q := mustQuestion(t, 1, "How many times does cane occur?", source, 1)

	source[1] = "mutated"
	if got := q.Option(1); got != "5" {
		t.Fatalf("mutating the source slice leaked into the question: got %q", got)
	}

	opts := q.Options()
	opts[0] = "mutated"
	if got := q.Option(0); got != "3" {
		t.Fatalf("mutating the returned slice leaked into the question: got %q", got)
	}
}

func TestQuestionOptionOutOfBounds(t *testing.T) {
	q := mustQuestion(t, 1, "Which word?", []string{"cane", "gatto"}, 0)

	if got := q.Option(-1); got != "" {
		t.Fatalf("expected empty string for negative index, got %q", got)
	}
	if got := q.Option(2); got != "" {
		t.Fatalf("expected empty string past the end, got %q", got)
	}
}

func TestNewAnswerValidation(t *testing.T) {
	q := mustQuestion(t, 1, "Which word?", []string{"cane", "gatto"}, 0)

	if _, err := NewAnswer(nil, 0); !errors.Is(err, ErrNilQuestion) {
		t.Fatalf("expected ErrNilQuestion, got %v", err)
	}
	if _, err := NewAnswer(q, 2); !errors.Is(err, ErrInvalidOptionIndex) {
		t.Fatalf("expected ErrInvalidOptionIndex, got %v", err)
	}
	if _, err := NewAnswer(q, -1); !errors.Is(err, ErrInvalidOptionIndex) {
		t.Fatalf("expected ErrInvalidOptionIndex, got %v", err)
	}
}

func TestAnswerScoring(t *testing.T) {
	q := mustQuestion(t, 1, "Which word?", []string{"cane", "gatto"}, 0)

	correct, err := NewAnswer(q, 0)
	if err != nil {
		t.Fatalf("failed to build answer: %v", err)
	}
	if !correct.IsCorrect() {
		t.Fatal("expected answer on the correct index to be correct")
	}
	if got := correct.ScoreContribution(); got != ScoreCorrect {
		t.Fatalf("expected score %v, got %v", ScoreCorrect, got)
	}

	wrong, err := NewAnswer(q, 1)
	if err != nil {
		t.Fatalf("failed to build answer: %v", err)
	}
	if wrong.IsCorrect() {
		t.Fatal("expected answer on a wrong index to be incorrect")
	}
	if got := wrong.ScoreContribution(); got != ScoreIncorrect {
		t.Fatalf("expected score %v, got %v", ScoreIncorrect, got)
	}
	if got := wrong.SelectedText(); got != "gatto" {
		t.Fatalf("expected selected text gatto, got %q", got)
	}
}
