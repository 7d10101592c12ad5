package flow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/antigolpes/backend/internal/domain/question"
	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/domain/quizrun"
	"github.com/antigolpes/backend/internal/flow"
	"github.com/antigolpes/backend/internal/store"
)

// flakyStore fails RecordQuizCompletion while fail is set.
type flakyStore struct {
	*store.SQLiteStore
	fail bool
}

func (f *flakyStore) RecordQuizCompletion(ctx context.Context, userID int64, runID string, score, total int) (*quizattempt.Attempt, error) {
	if f.fail {
		return nil, errors.New("disk I/O error")
	}
	return f.SQLiteStore.RecordQuizCompletion(ctx, userID, runID, score, total)
}

type fixture struct {
	ctrl  *flow.Controller
	store *flakyStore
	path  string
}

func createBank(t *testing.T, n int) *question.Bank {
	t.Helper()
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			Question: fmt.Sprintf("Question %d", i),
			Options:  []question.Option{{Label: "A", Text: "golpe"}, {Label: "B", Text: "seguro"}},
			Correct:  "A",
			Tip:      fmt.Sprintf("tip %d", i),
		}
	}
	bank, err := question.New(qs)
	if err != nil {
		t.Fatalf("failed to build bank: %v", err)
	}
	return bank
}

func newFixture(t *testing.T, questions int) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.db")
	s, err := store.NewSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	fs := &flakyStore{SQLiteStore: s}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := flow.NewController(createBank(t, questions), fs, s.SessionSlot(), quizrun.DefaultConfig(), logger)
	return &fixture{ctrl: ctrl, store: fs, path: path}
}

// loginAs registers and logs in a user, ending on the profile screen.
func (f *fixture) loginAs(t *testing.T, name, email string) int64 {
	t.Helper()
	ctx := context.Background()
	c := f.ctrl

	mustDo(t, c.Navigate(flow.Register))
	u, err := c.Register(ctx, name, email, "pw123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	mustDo(t, c.Navigate(flow.Welcome))
	mustDo(t, c.Navigate(flow.Login))
	if _, err := c.Login(ctx, email, "pw123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	mustDo(t, c.Navigate(flow.Profile))
	return u.ID
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// playRun answers the given labels one by one and finishes on end.
func playRun(t *testing.T, c *flow.Controller, labels []string) {
	t.Helper()
	for _, label := range labels {
		if _, err := c.SubmitAnswer(label); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		mustDo(t, c.Next(context.Background()))
	}
}

func TestController_StartsOnWelcome(t *testing.T) {
	f := newFixture(t, 3)

	v := f.ctrl.View()
	if v.Screen != flow.Welcome {
		t.Errorf("expected welcome, got %s", v.Screen)
	}
	if v.User != nil {
		t.Errorf("expected no user, got %+v", v.User)
	}
}

func TestNavigate_RejectsUndeclaredEdges(t *testing.T) {
	f := newFixture(t, 3)

	tests := []flow.Screen{flow.End, flow.Result, flow.Profile, flow.Interests, flow.Welcome}
	for _, to := range tests {
		t.Run(to.String(), func(t *testing.T) {
			err := f.ctrl.Navigate(to)
			if !errors.Is(err, flow.ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition for welcome → %s, got %v", to, err)
			}
			if f.ctrl.Screen() != flow.Welcome {
				t.Errorf("expected to stay on welcome, got %s", f.ctrl.Screen())
			}
		})
	}
}

func TestNavigate_RejectsEdgesOwnedByOperations(t *testing.T) {
	f := newFixture(t, 3)

	if err := f.ctrl.Navigate(flow.Quiz); !errors.Is(err, flow.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for welcome → quiz via Navigate, got %v", err)
	}
}

func TestNavigate_ProfileRequiresLogin(t *testing.T) {
	f := newFixture(t, 3)

	mustDo(t, f.ctrl.Navigate(flow.Login))
	if err := f.ctrl.Navigate(flow.Profile); !errors.Is(err, flow.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if f.ctrl.Screen() != flow.Login {
		t.Errorf("expected to stay on login, got %s", f.ctrl.Screen())
	}
}

func TestUnauthenticatedRun_SkipsPersistence(t *testing.T) {
	f := newFixture(t, 3)
	c := f.ctrl

	mustDo(t, c.StartQuiz())
	playRun(t, c, []string{"A", "B", "A"})

	v := c.View()
	if v.Screen != flow.End {
		t.Fatalf("expected end, got %s", v.Screen)
	}
	if v.Score != 2 || v.TotalQuestions != 3 || v.Percentage != 67 {
		t.Errorf("expected 2/3 (67%%), got %d/%d (%d%%)", v.Score, v.TotalQuestions, v.Percentage)
	}

	users, _ := f.store.GetAllUsers(context.Background())
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}
}

func TestSubmitAnswer_ShowsResultWithoutAdvancing(t *testing.T) {
	f := newFixture(t, 3)
	c := f.ctrl

	mustDo(t, c.StartQuiz())
	before := c.View()
	if before.Question == nil || before.Question.Correct != "" {
		t.Fatalf("expected an active question without its answer, got %+v", before.Question)
	}

	correct, err := c.SubmitAnswer("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if correct {
		t.Error("expected lowercase label to be wrong")
	}

	v := c.View()
	if v.Screen != flow.Result || v.QuestionNumber != 1 || v.Score != 0 {
		t.Errorf("expected result for question 1 with score 0, got %+v", v)
	}
	if v.LastAnswerCorrect == nil || *v.LastAnswerCorrect {
		t.Errorf("expected last answer marked wrong, got %v", v.LastAnswerCorrect)
	}
	if v.Question.Correct != "A" || v.Tip == "" {
		t.Errorf("expected correct label and tip on result, got %+v / %q", v.Question, v.Tip)
	}

	if _, err := c.SubmitAnswer("A"); !errors.Is(err, flow.ErrInvalidTransition) {
		t.Errorf("expected second answer to be rejected, got %v", err)
	}

	mustDo(t, c.Next(context.Background()))
	v = c.View()
	if v.Screen != flow.Quiz || v.QuestionNumber != 2 || v.LastAnswerCorrect != nil {
		t.Errorf("expected quiz on question 2 with cleared flag, got %+v", v)
	}
}

func TestAuthenticatedRun_RecordsAttempt(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	c := f.ctrl
	userID := f.loginAs(t, "Ana", "ana@x.com")

	mustDo(t, c.StartQuiz())
	playRun(t, c, []string{"A", "A", "B"})

	if c.Screen() != flow.End {
		t.Fatalf("expected end, got %s", c.Screen())
	}

	attempts, err := f.store.GetUserQuizAttempts(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}
	a := attempts[0]
	if a.Score != 2 || a.TotalQuestions != 3 || a.Percentage != 67 || a.RunID == "" {
		t.Errorf("unexpected attempt: %+v", a)
	}

	u, _ := f.store.GetUser(ctx, userID)
	if u.Score != 2 {
		t.Errorf("expected stored score 2, got %d", u.Score)
	}

	snap, _ := f.store.SessionSlot().Load(ctx)
	if snap == nil || snap.Score != 2 {
		t.Errorf("expected slot score 2, got %+v", snap)
	}
	if cu := c.CurrentUser(); cu == nil || cu.Score != 2 {
		t.Errorf("expected session score 2, got %+v", cu)
	}
}

func TestAuthenticatedRun_SixOfTen(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	c := f.ctrl
	userID := f.loginAs(t, "Ana", "ana@x.com")

	mustDo(t, c.StartQuiz())
	playRun(t, c, []string{"A", "A", "A", "A", "A", "A", "B", "B", "B", "B"})

	if c.Screen() != flow.End {
		t.Fatalf("expected end, got %s", c.Screen())
	}

	attempts, err := f.store.GetUserQuizAttempts(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}
	if a := attempts[0]; a.Score != 6 || a.TotalQuestions != 10 || a.Percentage != 60 {
		t.Errorf("unexpected attempt: %+v", a)
	}

	stats, err := f.store.GetUserStats(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAttempts != 1 || stats.BestScore != 6 || stats.AverageScore != 6.0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestNext_StorageFailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	c := f.ctrl
	userID := f.loginAs(t, "Ana", "ana@x.com")

	mustDo(t, c.StartQuiz())
	playRun(t, c, []string{"A"})
	if _, err := c.SubmitAnswer("A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.store.fail = true
	if err := c.Next(ctx); err == nil {
		t.Fatal("expected an error when storage fails")
	}

	v := c.View()
	if v.Screen != flow.Result || v.Score != 2 || v.QuestionNumber != 2 {
		t.Errorf("expected to stay on result 2/2 with score 2, got %+v", v)
	}
	u, _ := f.store.GetUser(ctx, userID)
	if u.Score != 0 {
		t.Errorf("expected stored score untouched, got %d", u.Score)
	}

	f.store.fail = false
	mustDo(t, c.Next(ctx))
	if c.Screen() != flow.End {
		t.Errorf("expected end after retry, got %s", c.Screen())
	}
	attempts, _ := f.store.GetUserQuizAttempts(ctx, userID)
	if len(attempts) != 1 {
		t.Errorf("expected exactly 1 attempt after retry, got %d", len(attempts))
	}
}

func TestLastWriteWinsScore(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	c := f.ctrl
	userID := f.loginAs(t, "Ana", "ana@x.com")

	mustDo(t, c.StartQuiz())
	playRun(t, c, []string{"A", "A"})
	mustDo(t, c.Replay())
	playRun(t, c, []string{"B", "B"})

	u, _ := f.store.GetUser(ctx, userID)
	if u.Score != 0 {
		t.Errorf("expected worse replay to overwrite score, got %d", u.Score)
	}
}

func TestReplay_ResamplesAndResets(t *testing.T) {
	f := newFixture(t, 3)
	c := f.ctrl

	mustDo(t, c.StartQuiz())
	playRun(t, c, []string{"A", "A", "A"})
	first := c.View()

	mustDo(t, c.Replay())
	v := c.View()
	if v.Screen != flow.Quiz || v.QuestionNumber != 1 || v.Score != 0 {
		t.Errorf("expected fresh run on question 1, got %+v", v)
	}
	if first.Score != 3 {
		t.Errorf("expected first run score 3, got %d", first.Score)
	}
}

func TestQuizAbandon_ReturnsToWelcome(t *testing.T) {
	f := newFixture(t, 3)
	c := f.ctrl

	mustDo(t, c.StartQuiz())
	c.SubmitAnswer("A")
	mustDo(t, c.Next(context.Background()))

	mustDo(t, c.Navigate(flow.Welcome))
	mustDo(t, c.StartQuiz())
	v := c.View()
	if v.QuestionNumber != 1 || v.Score != 0 {
		t.Errorf("expected a new run after abandoning, got %+v", v)
	}
}

func TestEnd_GoToProfile(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t, 1)
		mustDo(t, f.ctrl.StartQuiz())
		playRun(t, f.ctrl, []string{"A"})

		if err := f.ctrl.GoToProfile(); !errors.Is(err, flow.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("logged in", func(t *testing.T) {
		f := newFixture(t, 1)
		f.loginAs(t, "Ana", "ana@x.com")
		mustDo(t, f.ctrl.StartQuiz())
		playRun(t, f.ctrl, []string{"A"})

		mustDo(t, f.ctrl.GoToProfile())
		if f.ctrl.Screen() != flow.Profile {
			t.Errorf("expected profile, got %s", f.ctrl.Screen())
		}
	})
}

func TestLogin_Errors(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	c := f.ctrl
	f.store.CreateUser(ctx, "Ana", "ana@x.com", "pw123")

	if _, err := c.Login(ctx, "ana@x.com", "pw123"); !errors.Is(err, flow.ErrWrongScreen) {
		t.Errorf("expected ErrWrongScreen outside login, got %v", err)
	}

	mustDo(t, c.Navigate(flow.Login))
	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"malformed email", "ana", "pw123", store.ErrValidation},
		{"missing password", "ana@x.com", "", store.ErrValidation},
		{"wrong password", "ana@x.com", "nope", flow.ErrInvalidCredentials},
		{"unknown email", "bia@x.com", "pw123", flow.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Login(ctx, tt.email, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if c.CurrentUser() != nil {
				t.Error("expected nobody logged in")
			}
		})
	}
}

func TestLogout_ClearsSessionAndSlot(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	c := f.ctrl
	f.loginAs(t, "Ana", "ana@x.com")

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Screen() != flow.Welcome || c.CurrentUser() != nil {
		t.Errorf("expected anonymous welcome, got %s / %+v", c.Screen(), c.CurrentUser())
	}
	if snap, _ := f.store.SessionSlot().Load(ctx); snap != nil {
		t.Errorf("expected empty slot, got %+v", snap)
	}

	if err := c.Logout(ctx); !errors.Is(err, flow.ErrInvalidTransition) {
		t.Errorf("expected logout from welcome to be rejected, got %v", err)
	}
}

func TestRestore_AfterRestart(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	userID := f.loginAs(t, "Ana", "ana@x.com")
	f.store.UpdateUserScore(ctx, userID, 5)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restarted := flow.NewController(createBank(t, 1), f.store, f.store.SessionSlot(), quizrun.DefaultConfig(), logger)
	if err := restarted.Restore(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := restarted.CurrentUser()
	if u == nil || u.UserID != userID || u.Name != "Ana" || u.Score != 5 {
		t.Errorf("expected restored Ana with score 5, got %+v", u)
	}
	if restarted.Screen() != flow.Welcome {
		t.Errorf("expected restart on welcome, got %s", restarted.Screen())
	}
}

func TestRestore_DeletedUserClearsSlot(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	userID := f.loginAs(t, "Ana", "ana@x.com")

	// Put the slot back after the cascade removed it.
	snap, _ := f.store.SessionSlot().Load(ctx)
	f.store.DeleteUser(ctx, userID)
	f.store.SessionSlot().Save(ctx, *snap)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restarted := flow.NewController(createBank(t, 1), f.store, f.store.SessionSlot(), quizrun.DefaultConfig(), logger)
	if err := restarted.Restore(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restarted.CurrentUser() != nil {
		t.Errorf("expected nobody restored, got %+v", restarted.CurrentUser())
	}
	if got, _ := f.store.SessionSlot().Load(ctx); got != nil {
		t.Errorf("expected slot cleared, got %+v", got)
	}
}

func TestRegister_ThenInterests(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	c := f.ctrl

	mustDo(t, c.Navigate(flow.Register))
	if _, err := c.Register(ctx, "Ana", "bad-email", "pw"); !errors.Is(err, store.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	u, err := c.Register(ctx, "Ana", "ana@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Register(ctx, "Ana 2", "ana@x.com", "pw"); !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if c.Screen() != flow.Register {
		t.Errorf("expected register to keep the screen, got %s", c.Screen())
	}

	mustDo(t, c.Navigate(flow.Interests))
	mustDo(t, c.SelectInterests(ctx, []string{"Redes sociais", "Bancos"}))

	got, _ := f.store.GetUserInterests(ctx, u.ID)
	if len(got) != 2 {
		t.Errorf("expected 2 interests, got %v", got)
	}

	mustDo(t, c.StartQuiz())
	if c.Screen() != flow.Quiz {
		t.Errorf("expected quiz, got %s", c.Screen())
	}
	if c.CurrentUser() != nil {
		t.Error("expected registration not to log in")
	}
}

func TestInterests_OnlyForTheCurrentRegistration(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	c := f.ctrl

	mustDo(t, c.Navigate(flow.Register))
	ana, err := c.Register(ctx, "Ana", "ana@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustDo(t, c.Navigate(flow.Interests))
	mustDo(t, c.SelectInterests(ctx, []string{"Redes sociais"}))
	mustDo(t, c.StartQuiz())
	mustDo(t, c.Navigate(flow.Welcome))

	// Someone else walks through register without creating an account.
	mustDo(t, c.Navigate(flow.Register))
	mustDo(t, c.Navigate(flow.Interests))
	mustDo(t, c.SelectInterests(ctx, []string{"Bancos"}))

	got, _ := f.store.GetUserInterests(ctx, ana.ID)
	if len(got) != 1 || got[0] != "Redes sociais" {
		t.Errorf("expected Ana's interests untouched, got %v", got)
	}
}

func TestInterests_AbandonedRegistrationIsForgotten(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	c := f.ctrl

	mustDo(t, c.Navigate(flow.Register))
	ana, err := c.Register(ctx, "Ana", "ana@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustDo(t, c.Navigate(flow.Welcome))

	mustDo(t, c.Navigate(flow.Register))
	mustDo(t, c.Navigate(flow.Interests))
	mustDo(t, c.SelectInterests(ctx, []string{"Bancos"}))

	got, _ := f.store.GetUserInterests(ctx, ana.ID)
	if len(got) != 0 {
		t.Errorf("expected no interests for Ana, got %v", got)
	}
}

func TestStartQuiz_EmptyBank(t *testing.T) {
	f := newFixture(t, 0)

	if err := f.ctrl.StartQuiz(); !errors.Is(err, flow.ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
	if f.ctrl.Screen() != flow.Welcome {
		t.Errorf("expected to stay on welcome, got %s", f.ctrl.Screen())
	}
}

func TestRunLength_CappedAtTen(t *testing.T) {
	f := newFixture(t, 14)

	mustDo(t, f.ctrl.StartQuiz())
	if v := f.ctrl.View(); v.TotalQuestions != 10 {
		t.Errorf("expected 10 questions, got %d", v.TotalQuestions)
	}
}
