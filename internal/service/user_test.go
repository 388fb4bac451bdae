package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wordageddon/wordageddon/internal/domain"
)

func registerTestUser(t *testing.T, svc *UserService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Username:  "marta",
		Email:     "marta@example.com",
		Password:  "verdeacqua",
		FirstName: "Marta",
		LastName:  "Ricci",
	})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return user
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	user := registerTestUser(t, svc)
	if user.PasswordHash == "" {
		t.Fatal("expected a password hash to be set")
	}
	if user.PasswordHash == "verdeacqua" {
		t.Fatal("password must not be stored in clear")
	}
	if user.ID == "" {
		t.Fatal("expected a generated user ID")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:  "marta",
		Email:     "other@example.com",
		Password:  "verdeacqua",
		FirstName: "Marta",
		LastName:  "Ricci",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists for a taken username, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Username:  "altra",
		Email:     "marta@example.com",
		Password:  "verdeacqua",
		FirstName: "Marta",
		LastName:  "Ricci",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists for a taken email, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	registerTestUser(t, svc)

	user, token, err := svc.Login(context.Background(), LoginRequest{
		Username: "marta",
		Password: "verdeacqua",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if user.LastLoginAt.IsZero() {
		t.Fatal("expected the last login time to be set")
	}

	if _, _, err := svc.Login(context.Background(), LoginRequest{
		Username: "marta",
		Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for a wrong password, got %v", err)
	}

	if _, _, err := svc.Login(context.Background(), LoginRequest{
		Username: "nessuno",
		Password: "verdeacqua",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for an unknown user, got %v", err)
	}
}

func TestRecordResultFoldsStats(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := registerTestUser(t, svc)

	first := &domain.SessionSummary{Score: 1.67, CorrectAnswers: 2, TotalQuestions: 3}
	if err := svc.RecordResult(context.Background(), user.ID, first); err != nil {
		t.Fatalf("failed to record result: %v", err)
	}

	second := &domain.SessionSummary{Score: -0.99, CorrectAnswers: 0, TotalQuestions: 3}
	if err := svc.RecordResult(context.Background(), user.ID, second); err != nil {
		t.Fatalf("failed to record result: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	stats := stored.Stats
	if stats.GamesPlayed != 2 {
		t.Fatalf("expected 2 games played, got %d", stats.GamesPlayed)
	}
	if stats.BestScore != 1.67 {
		t.Fatalf("a worse score must not replace the best, got %v", stats.BestScore)
	}
	if stats.CorrectAnswers != 2 || stats.TotalAnswers != 6 {
		t.Fatalf("unexpected answer totals: %+v", stats)
	}
}
