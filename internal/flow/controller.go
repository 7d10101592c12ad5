package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/antigolpes/backend/internal/domain/question"
	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/domain/quizrun"
	"github.com/antigolpes/backend/internal/domain/user"
	"github.com/antigolpes/backend/internal/session"
	"github.com/antigolpes/backend/internal/store"
)

var (
	ErrInvalidTransition  = errors.New("invalid screen transition")
	ErrWrongScreen        = errors.New("operation not available on this screen")
	ErrNotAuthenticated   = errors.New("no user is logged in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoQuestions        = errors.New("question bank is empty")
)

// Store is the part of the persistence layer the controller drives.
type Store interface {
	CreateUser(ctx context.Context, name, email, password string) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	GetUserByCredentials(ctx context.Context, email, password string) (*user.User, error)
	RecordQuizCompletion(ctx context.Context, userID int64, runID string, score, totalQuestions int) (*quizattempt.Attempt, error)
	SaveUserInterests(ctx context.Context, userID int64, interests []string) error
}

// Session is everything the controller knows about the person in front of
// the screen.
type Session struct {
	Screen Screen
	User   *session.Snapshot // nil when nobody is logged in

	// RegisteredUserID is the account created on the register screen, used
	// to attach the interests picked right after it.
	RegisteredUserID int64

	Run *quizrun.Run
}

// Controller sequences the screens. All methods are safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	sess   Session
	bank   *question.Bank
	store  Store
	slot   session.Slot
	config quizrun.Config
	logger *slog.Logger
}

func NewController(bank *question.Bank, s Store, slot session.Slot, config quizrun.Config, logger *slog.Logger) *Controller {
	return &Controller{
		sess: Session{
			Screen: Welcome,
			Run:    quizrun.New(bank, config),
		},
		bank:   bank,
		store:  s,
		slot:   slot,
		config: config,
		logger: logger,
	}
}

func (c *Controller) move(to Screen, act action) error {
	if !allowed(c.sess.Screen, to, act) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, c.sess.Screen, to)
	}
	c.sess.Screen = to
	return nil
}

func (c *Controller) resample() {
	c.sess.Run = quizrun.New(c.bank, c.config)
}

// Screen returns the active screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Screen
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (c *Controller) CurrentUser() *session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.User == nil {
		return nil
	}
	u := *c.sess.User
	return &u
}

// ── Navigation ─────────────────────────────────────────────

// Navigate follows a plain edge of the transition table. Edges owned by a
// dedicated operation (answering, advancing, replaying...) are rejected.
// Leaving the quiz or the end screen discards the current run. Opening
// register from welcome forgets the previous registration.
func (c *Controller) Navigate(to Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.sess.Screen
	if !allowed(from, to, actNavigate) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
	if to == Profile && c.sess.User == nil {
		return ErrNotAuthenticated
	}

	c.sess.Screen = to
	if from == Quiz || from == End {
		c.resample()
	}
	if from == Welcome && to == Register {
		c.sess.RegisteredUserID = 0
	}
	return nil
}

// ── Accounts ───────────────────────────────────────────────

// Register creates an account from the register screen. The screen does not
// change; the caller moves on to interests.
func (c *Controller) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Screen != Register {
		return nil, fmt.Errorf("%w: register on %s", ErrWrongScreen, c.sess.Screen)
	}

	u, err := c.store.CreateUser(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	c.sess.RegisteredUserID = u.ID
	c.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// SelectInterests stores the topics picked for the account registered just
// before. Without a registration the choice is accepted but not persisted.
func (c *Controller) SelectInterests(ctx context.Context, interests []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Screen != Interests {
		return fmt.Errorf("%w: interests on %s", ErrWrongScreen, c.sess.Screen)
	}
	if c.sess.RegisteredUserID == 0 {
		return nil
	}
	return c.store.SaveUserInterests(ctx, c.sess.RegisteredUserID, interests)
}

// Login authenticates from the login screen and hands the user off to the
// session slot. The screen does not change.
func (c *Controller) Login(ctx context.Context, email, password string) (*session.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Screen != Login {
		return nil, fmt.Errorf("%w: login on %s", ErrWrongScreen, c.sess.Screen)
	}
	if err := user.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrValidation, err)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: %w", store.ErrValidation, &user.FieldError{Field: "password", Reason: "is required"})
	}

	u, err := c.store.GetUserByCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	snap := session.Snapshot{UserID: u.ID, Name: u.Name, Score: u.Score}
	if err := c.slot.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("flow: save session: %w", err)
	}
	c.sess.User = &snap
	c.logger.Info("user logged in", "user_id", u.ID)

	out := snap
	return &out, nil
}

// Logout clears the session and the slot, draws a new sample and returns
// to welcome.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !allowed(c.sess.Screen, Welcome, actLogout) {
		return fmt.Errorf("%w: logout from %s", ErrInvalidTransition, c.sess.Screen)
	}
	if err := c.slot.Clear(ctx); err != nil {
		return fmt.Errorf("flow: clear session: %w", err)
	}

	c.sess.User = nil
	c.sess.RegisteredUserID = 0
	c.resample()
	c.sess.Screen = Welcome
	return nil
}

// Restore picks up the user saved in the slot by a previous process and
// refreshes their name and score from the store. A slot pointing at a
// deleted account is cleared.
func (c *Controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("flow: load session: %w", err)
	}
	if snap == nil {
		return nil
	}

	u, err := c.store.GetUser(ctx, snap.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.logger.Warn("saved session points at a missing user", "user_id", snap.UserID)
		return c.slot.Clear(ctx)
	}
	if err != nil {
		return fmt.Errorf("flow: restore session: %w", err)
	}

	c.sess.User = &session.Snapshot{UserID: u.ID, Name: u.Name, Score: u.Score}
	c.logger.Info("session restored", "user_id", u.ID)
	return nil
}

// ── Quiz ───────────────────────────────────────────────────

func (c *Controller) startRun(act action) error {
	from := c.sess.Screen
	if !allowed(from, Quiz, act) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, Quiz)
	}

	run := quizrun.New(c.bank, c.config)
	if run.Total() == 0 {
		return ErrNoQuestions
	}
	c.sess.Run = run
	c.sess.Screen = Quiz
	if from == Interests {
		c.sess.RegisteredUserID = 0
	}
	return nil
}

// StartQuiz begins a freshly sampled run from welcome, interests or profile.
// Starting from interests closes the registration.
func (c *Controller) StartQuiz() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startRun(actStartQuiz)
}

// Replay begins a freshly sampled run from the end screen.
func (c *Controller) Replay() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startRun(actReplay)
}

// SubmitAnswer scores label against the active question and shows the result.
func (c *Controller) SubmitAnswer(label string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !allowed(c.sess.Screen, Result, actAnswer) {
		return false, fmt.Errorf("%w: answer on %s", ErrInvalidTransition, c.sess.Screen)
	}

	correct, err := c.sess.Run.Answer(label)
	if err != nil {
		return false, err
	}
	c.sess.Screen = Result
	return correct, nil
}

// Next leaves the result screen. With questions left it shows the next one.
// After the last one it records the attempt for a logged-in user and moves
// to end. If recording fails nothing changes and Next may be retried.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Screen != Result {
		return fmt.Errorf("%w: next on %s", ErrInvalidTransition, c.sess.Screen)
	}

	run := c.sess.Run
	if run.HasNext() {
		if err := run.Advance(); err != nil {
			return err
		}
		return c.move(Quiz, actNext)
	}

	if c.sess.User != nil {
		if err := c.recordCompletion(ctx, run); err != nil {
			return err
		}
	}
	return c.move(End, actNext)
}

func (c *Controller) recordCompletion(ctx context.Context, run *quizrun.Run) error {
	u := c.sess.User

	attempt, err := c.store.RecordQuizCompletion(ctx, u.UserID, run.ID, run.Score, run.Total())
	if err != nil {
		c.logger.Error("failed to record quiz completion",
			"user_id", u.UserID,
			"run_id", run.ID,
			"error", err,
		)
		return fmt.Errorf("flow: record quiz: %w", err)
	}

	updated := *u
	updated.Score = attempt.Score
	if err := c.slot.Save(ctx, updated); err != nil {
		// The attempt is committed; the slot catches up on the next login.
		c.logger.Warn("failed to refresh session slot", "user_id", u.UserID, "error", err)
	}
	c.sess.User = &updated

	c.logger.Info("quiz completed",
		"user_id", u.UserID,
		"run_id", run.ID,
		"score", attempt.Score,
		"total", attempt.TotalQuestions,
		"percentage", attempt.Percentage,
	)
	return nil
}

// GoToProfile leaves the end screen for the logged-in user's profile.
func (c *Controller) GoToProfile() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.User == nil {
		return ErrNotAuthenticated
	}
	if err := c.move(Profile, actProfile); err != nil {
		return err
	}
	c.resample()
	return nil
}
