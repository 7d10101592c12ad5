package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/domain/user"
	"github.com/antigolpes/backend/internal/report"
	"github.com/antigolpes/backend/internal/store"
)

// Profile is the read model behind the profile screen.
type Profile struct {
	User      *user.User
	Interests []string
	Stats     quizattempt.Stats
	Attempts  []quizattempt.Attempt // most recent first
	Series    []quizattempt.Point   // oldest first, for the chart
}

// ProgressService assembles a user's history into the profile view and the
// PDF report.
type ProgressService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewProgressService(s store.Store, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		store:  s,
		logger: logger,
		now:    time.Now,
	}
}

// Profile loads the user with their attempts and derived statistics.
// Returns store.ErrNotFound for an unknown user.
func (ps *ProgressService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := ps.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempts, err := ps.store.GetUserQuizAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}

	interests, err := ps.store.GetUserInterests(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:      u,
		Interests: interests,
		Stats:     quizattempt.ComputeStats(attempts, u.Score),
		Attempts:  attempts,
		Series:    quizattempt.Series(attempts),
	}, nil
}

// WriteReport renders the user's progress report as PDF into w.
func (ps *ProgressService) WriteReport(ctx context.Context, userID int64, w io.Writer) error {
	p, err := ps.Profile(ctx, userID)
	if err != nil {
		return err
	}

	err = report.Render(w, report.Data{
		Name:        p.User.Name,
		Email:       p.User.Email,
		Stats:       p.Stats,
		Attempts:    p.Attempts,
		Series:      p.Series,
		GeneratedAt: ps.now(),
	})
	if err != nil {
		ps.logger.Error("failed to render report", "user_id", userID, "error", err)
		return fmt.Errorf("service: write report: %w", err)
	}
	return nil
}
