package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func buildTestSession(t *testing.T, count int) *GameSession {
	t.Helper()
	questions := make([]*Question, 0, count)
	for i := 1; i <= count; i++ {
		questions = append(questions, mustQuestion(t, i, "Which word?", []string{"cane", "gatto", "topo", "pesce"}, 0))
	}
	sess, err := NewGameSession("easy", questions)
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	return sess
}

func TestNewGameSessionValidation(t *testing.T) {
	q := mustQuestion(t, 1, "Which word?", []string{"cane", "gatto"}, 0)

	if _, err := NewGameSession("  ", []*Question{q}); !errors.Is(err, ErrBlankDifficulty) {
		t.Fatalf("expected ErrBlankDifficulty, got %v", err)
	}
	if _, err := NewGameSession("easy", nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestSubmitAnswerEnforcesOrder(t *testing.T) {
	sess := buildTestSession(t, 3)

	if _, err := sess.SubmitAnswer(1, 0); !errors.Is(err, ErrAnswerOutOfOrder) {
		t.Fatalf("expected ErrAnswerOutOfOrder when skipping ahead, got %v", err)
	}
	if _, err := sess.SubmitAnswer(3, 0); !errors.Is(err, ErrQuestionOutOfRange) {
		t.Fatalf("expected ErrQuestionOutOfRange, got %v", err)
	}
	if _, err := sess.SubmitAnswer(-1, 0); !errors.Is(err, ErrQuestionOutOfRange) {
		t.Fatalf("expected ErrQuestionOutOfRange for negative index, got %v", err)
	}

	if _, err := sess.SubmitAnswer(0, 0); err != nil {
		t.Fatalf("first in-order answer should succeed, got %v", err)
	}
	if _, err := sess.SubmitAnswer(0, 0); !errors.Is(err, ErrAnswerOutOfOrder) {
		t.Fatalf("expected ErrAnswerOutOfOrder on resubmission, got %v", err)
	}
}

func TestSessionCompletion(t *testing.T) {
	sess := buildTestSession(t, 2)

	if sess.IsCompleted() {
		t.Fatal("a fresh session must not be completed")
	}
	if got := sess.CurrentQuestionIndex(); got != 0 {
		t.Fatalf("expected current index 0, got %d", got)
	}

	if _, err := sess.SubmitAnswer(0, 0); err != nil {
		t.Fatalf("failed to submit answer: %v", err)
	}
	if sess.IsCompleted() {
		t.Fatal("session completed before the last answer")
	}

	if _, err := sess.SubmitAnswer(1, 0); err != nil {
		t.Fatalf("failed to submit answer: %v", err)
	}
	if !sess.IsCompleted() {
		t.Fatal("answering every question must complete the session")
	}
	if sess.EndedAt().IsZero() {
		t.Fatal("completion must fix the end timestamp")
	}
	if got := sess.CurrentQuestionIndex(); got != -1 {
		t.Fatalf("expected current index -1 after completion, got %d", got)
	}
	if q := sess.CurrentQuestion(); q != nil {
		t.Fatalf("expected nil current question after completion, got %v", q)
	}

	if _, err := sess.SubmitAnswer(1, 0); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
}

func TestSessionScoring(t *testing.T) {
	sess := buildTestSession(t, 3)

	// Two correct, one incorrect
	if _, err := sess.SubmitAnswer(0, 0); err != nil {
		t.Fatalf("failed to submit answer: %v", err)
	}
	if _, err := sess.SubmitAnswer(1, 0); err != nil {
		t.Fatalf("failed to submit answer: %v", err)
	}
	if _, err := sess.SubmitAnswer(2, 1); err != nil {
		t.Fatalf("failed to submit answer: %v", err)
	}

	if got := sess.TotalScore(); math.Abs(got-1.67) > 1e-9 {
		t.Fatalf("expected total score 1.67, got %v", got)
	}
	if got := sess.CorrectCount(); got != 2 {
		t.Fatalf("expected 2 correct answers, got %d", got)
	}
	if got := sess.IncorrectCount(); got != 1 {
		t.Fatalf("expected 1 incorrect answer, got %d", got)
	}
	if got := sess.PercentageScore(); math.Abs(got-66.666666) > 1e-3 {
		t.Fatalf("expected percentage around 66.7, got %v", got)
	}
	if got := sess.MaxPossibleScore(); got != 3.0 {
		t.Fatalf("expected max score 3.0, got %v", got)
	}
	if got := sess.MinPossibleScore(); math.Abs(got-(-0.99)) > 1e-9 {
		t.Fatalf("expected min score -0.99, got %v", got)
	}
}

func TestSessionJSONRoundTrip(t *testing.T) {
	sess := buildTestSession(t, 2)
	if _, err := sess.SubmitAnswer(0, 1); err != nil {
		t.Fatalf("failed to submit answer: %v", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("failed to marshal session: %v", err)
	}

	var restored GameSession
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal session: %v", err)
	}

	if got := restored.Difficulty(); got != "easy" {
		t.Fatalf("expected difficulty easy, got %q", got)
	}
	if got := restored.QuestionCount(); got != 2 {
		t.Fatalf("expected 2 questions, got %d", got)
	}
	if got := len(restored.Answers()); got != 1 {
		t.Fatalf("expected 1 answer, got %d", got)
	}
	if restored.Answers()[0].IsCorrect() {
		t.Fatal("answer correctness must survive the round trip")
	}
	if restored.IsCompleted() {
		t.Fatal("an in-progress session must stay in progress")
	}
	if got := restored.CurrentQuestionIndex(); got != 1 {
		t.Fatalf("expected current index 1, got %d", got)
	}

	// Resume play on the restored session
	if _, err := restored.SubmitAnswer(1, 0); err != nil {
		t.Fatalf("failed to resume restored session: %v", err)
	}
	if !restored.IsCompleted() {
		t.Fatal("restored session should complete normally")
	}
}

func TestSessionUnmarshalRejectsCorruptState(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"blank difficulty", `{"difficulty":" ","questions":[{"number":1,"text":"x","options":["a","b"],"correct_index":0}]}`},
		{"no questions", `{"difficulty":"easy","questions":[]}`},
		{"bad correct index", `{"difficulty":"easy","questions":[{"number":1,"text":"x","options":["a","b"],"correct_index":7}]}`},
		{"more answers than questions", `{"difficulty":"easy","questions":[{"number":1,"text":"x","options":["a","b"],"correct_index":0}],"answers":[{"selected_index":0},{"selected_index":1}]}`},
		{"answer out of bounds", `{"difficulty":"easy","questions":[{"number":1,"text":"x","options":["a","b"],"correct_index":0},{"number":2,"text":"y","options":["a","b"],"correct_index":1}],"answers":[{"selected_index":5,"submitted_at":"2026-01-01T00:00:00Z"}]}`},
		{"completed without all answers", `{"difficulty":"easy","questions":[{"number":1,"text":"x","options":["a","b"],"correct_index":0}],"answers":[],"completed":true}`},
		{"fully answered but not completed", `{"difficulty":"easy","questions":[{"number":1,"text":"x","options":["a","b"],"correct_index":0}],"answers":[{"selected_index":0,"submitted_at":"2026-01-01T00:00:00Z"}],"completed":false}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sess GameSession
			if err := sess.UnmarshalJSON([]byte(tc.data)); !errors.Is(err, ErrCorruptSessionState) {
				t.Fatalf("expected ErrCorruptSessionState, got %v", err)
			}
		})
	}
}
