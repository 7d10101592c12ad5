package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/domain/user"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// invalid marks err as a validation failure while keeping it reachable
// through errors.As (e.g. *user.FieldError).
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// Store is the system of record for accounts and quiz history.
type Store interface {
	CreateUser(ctx context.Context, name, email, password string) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	// GetUserByCredentials returns nil, nil when no account matches.
	GetUserByCredentials(ctx context.Context, email, password string) (*user.User, error)
	GetAllUsers(ctx context.Context) ([]*user.User, error)
	UpdateUser(ctx context.Context, id int64, upd user.Update) error
	UpdateUserScore(ctx context.Context, id int64, score int) error
	DeleteUser(ctx context.Context, id int64) error

	SaveQuizAttempt(ctx context.Context, userID int64, score, totalQuestions, percentage int) (*quizattempt.Attempt, error)
	RecordQuizCompletion(ctx context.Context, userID int64, runID string, score, totalQuestions int) (*quizattempt.Attempt, error)
	GetUserQuizAttempts(ctx context.Context, userID int64) ([]quizattempt.Attempt, error)
	GetUserStats(ctx context.Context, userID int64) (quizattempt.Stats, error)

	SaveUserInterests(ctx context.Context, userID int64, interests []string) error
	GetUserInterests(ctx context.Context, userID int64) ([]string, error)
}
