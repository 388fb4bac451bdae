package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wordageddon/wordageddon/internal/domain"
	"github.com/wordageddon/wordageddon/internal/textindex"
)

// fakeCorpus serves a fixed index.
type fakeCorpus struct {
	index *textindex.Index
	docs  []string
}

func (f *fakeCorpus) CurrentIndex() (*textindex.Index, []string) {
	return f.index, f.docs
}

// fakePlayStore keeps plays in a map.
type fakePlayStore struct {
	plays map[string]*domain.Play
}

func newFakePlayStore() *fakePlayStore {
	return &fakePlayStore{plays: make(map[string]*domain.Play)}
}

func (f *fakePlayStore) StorePlay(ctx context.Context, play *domain.Play) error {
	f.plays[play.ID] = play
	return nil
}

func (f *fakePlayStore) GetPlay(ctx context.Context, playID string) (*domain.Play, error) {
	play, ok := f.plays[playID]
	if !ok {
		return nil, domain.ErrPlayNotFound
	}
	return play, nil
}

func (f *fakePlayStore) GetPlayByUser(ctx context.Context, userID string) (*domain.Play, error) {
	for _, play := range f.plays {
		if play.UserID == userID {
			return play, nil
		}
	}
	return nil, domain.ErrPlayNotFound
}

func (f *fakePlayStore) DeletePlay(ctx context.Context, play *domain.Play) error {
	delete(f.plays, play.ID)
	return nil
}

// fakeSessionRepo records what was persisted.
type fakeSessionRepo struct {
	saved   []*domain.SessionSummary
	answers [][]domain.AnswerRecord
}

func (f *fakeSessionRepo) SaveCompleted(ctx context.Context, summary *domain.SessionSummary, answers []domain.AnswerRecord) error {
	f.saved = append(f.saved, summary)
	f.answers = append(f.answers, answers)
	return nil
}

func (f *fakeSessionRepo) GetSummary(ctx context.Context, sessionID string) (*domain.SessionSummary, error) {
	for _, s := range f.saved {
		if s.ID == sessionID {
			return s, nil
		}
	}
	return nil, domain.ErrPlayNotFound
}

func (f *fakeSessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.SessionSummary, error) {
	var out []*domain.SessionSummary
	for _, s := range f.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	return nil, nil
}

// fakeUserRepo holds users keyed by ID.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UpdateStats(ctx context.Context, id string, stats domain.UserStats) error {
	user, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Stats = stats
	return nil
}

// fakeBroadcaster records emitted events and closed plays.
type fakeBroadcaster struct {
	events []string
	closed []string
}

func (f *fakeBroadcaster) BroadcastToPlay(playID string, eventType string, payload []byte) {
	f.events = append(f.events, eventType)
}

func (f *fakeBroadcaster) ClosePlay(playID string) {
	f.closed = append(f.closed, playID)
}

func testFixture(t *testing.T) (*PlayService, *fakePlayStore, *fakeSessionRepo, *fakeUserRepo, *fakeBroadcaster) {
	t.Helper()

	idx := textindex.NewIndex()
	analyzer := textindex.NewAnalyzer()
	analyzer.IndexCorpus(idx, []textindex.SourceDocument{
		{ID: "animali.txt", Text: "cane cane cane gatto gatto topo volpe lupo orso cervo"},
		{ID: "cucina.txt", Text: "pasta pasta pane vino olio sale pepe aglio"},
		{ID: "meteo.txt", Text: "pioggia sole sole vento nebbia neve tuono lampo"},
	})
	corpus := &fakeCorpus{index: idx, docs: []string{"animali.txt", "cucina.txt", "meteo.txt"}}

	plays := newFakePlayStore()
	sessions := &fakeSessionRepo{}
	users := newFakeUserRepo()
	hub := &fakeBroadcaster{}

	svc := NewPlayService(corpus, plays, sessions, NewUserService(users), hub)
	return svc, plays, sessions, users, hub
}

func TestStartPlayUnknownDifficulty(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	if _, err := svc.StartPlay(context.Background(), "u1", "nightmare"); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestStartPlayEmptyCorpus(t *testing.T) {
	svc := NewPlayService(
		&fakeCorpus{index: textindex.NewIndex()},
		newFakePlayStore(),
		&fakeSessionRepo{},
		NewUserService(newFakeUserRepo()),
		&fakeBroadcaster{},
	)

	if _, err := svc.StartPlay(context.Background(), "u1", "easy"); !errors.Is(err, ErrCorpusEmpty) {
		t.Fatalf("expected ErrCorpusEmpty, got %v", err)
	}
}

func TestStartPlayBuildsSessionPerDifficulty(t *testing.T) {
	svc, plays, _, _, hub := testFixture(t)

	play, err := svc.StartPlay(context.Background(), "u1", "medium")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}

	if got := play.Session.QuestionCount(); got != 5 {
		t.Fatalf("expected 5 questions on medium, got %d", got)
	}
	if got := len(play.Documents); got != 2 {
		t.Fatalf("expected 2 in-play documents on medium, got %d", got)
	}
	if play.Session.Difficulty() != "medium" {
		t.Fatalf("expected difficulty medium, got %q", play.Session.Difficulty())
	}
	if _, ok := plays.plays[play.ID]; !ok {
		t.Fatal("play was not parked in the store")
	}
	if len(hub.events) != 1 || hub.events[0] != "play_started" {
		t.Fatalf("expected a play_started event, got %v", hub.events)
	}
}

func TestStartPlayClampsDocumentsToCorpus(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	// Hard wants 3 documents and the corpus has exactly 3
	play, err := svc.StartPlay(context.Background(), "u1", "hard")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}
	if got := len(play.Documents); got != 3 {
		t.Fatalf("expected 3 in-play documents, got %d", got)
	}
	if got := play.Session.QuestionCount(); got != 10 {
		t.Fatalf("expected 10 questions on hard, got %d", got)
	}
}

func TestCustomTiers(t *testing.T) {
	idx := textindex.NewIndex()
	idx.AddTerm("solo.txt", "cane")
	corpus := &fakeCorpus{index: idx, docs: []string{"solo.txt"}}

	svc := NewPlayServiceWithTiers(corpus, newFakePlayStore(), &fakeSessionRepo{},
		NewUserService(newFakeUserRepo()), &fakeBroadcaster{},
		map[string]domain.DifficultySettings{"blitz": {Questions: 1, Documents: 1}})

	play, err := svc.StartPlay(context.Background(), "u1", "blitz")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}
	if got := play.Session.QuestionCount(); got != 1 {
		t.Fatalf("expected 1 question on blitz, got %d", got)
	}

	if _, err := svc.StartPlay(context.Background(), "u1", "easy"); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("built-in tiers must not leak into a custom table, got %v", err)
	}
}

func TestSubmitAnswerUnknownPlay(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	if _, err := svc.SubmitAnswer(context.Background(), "missing", 0, 0); !errors.Is(err, domain.ErrPlayNotFound) {
		t.Fatalf("expected ErrPlayNotFound, got %v", err)
	}
}

func TestSubmitAnswerOutOfOrder(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	play, err := svc.StartPlay(context.Background(), "u1", "easy")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}

	if _, err := svc.SubmitAnswer(context.Background(), play.ID, 2, 0); !errors.Is(err, domain.ErrAnswerOutOfOrder) {
		t.Fatalf("expected ErrAnswerOutOfOrder, got %v", err)
	}
}

func TestFullPlayPersistsSessionAndStats(t *testing.T) {
	svc, plays, sessions, users, hub := testFixture(t)

	if err := users.Create(context.Background(), &domain.User{ID: "u1", Username: "marta"}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	play, err := svc.StartPlay(context.Background(), "u1", "easy")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}

	var last *SubmitResult
	for i := 0; i < play.Session.QuestionCount(); i++ {
		last, err = svc.SubmitAnswer(context.Background(), play.ID, i, 0)
		if err != nil {
			t.Fatalf("failed to submit answer %d: %v", i, err)
		}
	}

	if !last.Completed {
		t.Fatal("expected the final submission to complete the play")
	}
	if last.Summary == nil {
		t.Fatal("expected a summary on completion")
	}
	if last.Summary.TotalQuestions != 3 {
		t.Fatalf("expected 3 questions in the summary, got %d", last.Summary.TotalQuestions)
	}

	if len(sessions.saved) != 1 {
		t.Fatalf("expected 1 persisted session, got %d", len(sessions.saved))
	}
	if got := len(sessions.answers[0]); got != 3 {
		t.Fatalf("expected 3 persisted answers, got %d", got)
	}

	if _, ok := plays.plays[play.ID]; ok {
		t.Fatal("completed play should be evicted from the store")
	}

	user, err := users.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if user.Stats.GamesPlayed != 1 {
		t.Fatalf("expected 1 game played, got %d", user.Stats.GamesPlayed)
	}
	if user.Stats.TotalAnswers != 3 {
		t.Fatalf("expected 3 total answers, got %d", user.Stats.TotalAnswers)
	}

	want := []string{"play_started", "answer_scored", "answer_scored", "answer_scored", "play_completed"}
	if len(hub.events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, hub.events)
	}
	for i := range want {
		if hub.events[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, hub.events)
		}
	}

	if len(hub.closed) != 1 || hub.closed[0] != play.ID {
		t.Fatalf("expected spectators of %s to be hung up, got %v", play.ID, hub.closed)
	}
}

func TestCurrentPlayForUser(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	if _, err := svc.CurrentPlayForUser(context.Background(), "u1"); !errors.Is(err, domain.ErrPlayNotFound) {
		t.Fatalf("expected ErrPlayNotFound before any play, got %v", err)
	}

	play, err := svc.StartPlay(context.Background(), "u1", "easy")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}

	current, err := svc.CurrentPlayForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("failed to get current play: %v", err)
	}
	if current.ID != play.ID {
		t.Fatalf("expected play %s, got %s", play.ID, current.ID)
	}

	for i := 0; i < play.Session.QuestionCount(); i++ {
		if _, err := svc.SubmitAnswer(context.Background(), play.ID, i, 0); err != nil {
			t.Fatalf("failed to submit answer %d: %v", i, err)
		}
	}

	if _, err := svc.CurrentPlayForUser(context.Background(), "u1"); !errors.Is(err, domain.ErrPlayNotFound) {
		t.Fatalf("expected ErrPlayNotFound after completion, got %v", err)
	}
}

func TestSubmitAnswerAfterCompletion(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	play, err := svc.StartPlay(context.Background(), "u1", "easy")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}
	for i := 0; i < play.Session.QuestionCount(); i++ {
		if _, err := svc.SubmitAnswer(context.Background(), play.ID, i, 0); err != nil {
			t.Fatalf("failed to submit answer %d: %v", i, err)
		}
	}

	// The play is gone from the store once completed
	if _, err := svc.SubmitAnswer(context.Background(), play.ID, 0, 0); !errors.Is(err, domain.ErrPlayNotFound) {
		t.Fatalf("expected ErrPlayNotFound after completion, got %v", err)
	}
}

func TestHistoryAndSummary(t *testing.T) {
	svc, _, _, _, _ := testFixture(t)

	play, err := svc.StartPlay(context.Background(), "u1", "easy")
	if err != nil {
		t.Fatalf("failed to start play: %v", err)
	}
	for i := 0; i < play.Session.QuestionCount(); i++ {
		if _, err := svc.SubmitAnswer(context.Background(), play.ID, i, 0); err != nil {
			t.Fatalf("failed to submit answer %d: %v", i, err)
		}
	}

	summary, err := svc.Summary(context.Background(), play.ID)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.UserID != "u1" {
		t.Fatalf("expected user u1 on the summary, got %q", summary.UserID)
	}

	history, err := svc.History(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 session in history, got %d", len(history))
	}
}
