package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/domain/user"
)

// ============================================================================
// Quiz attempts
// ============================================================================

func validateAttempt(score, total, percentage int) error {
	switch {
	case total <= 0:
		return invalid(&user.FieldError{Field: "total_questions", Reason: "must be positive"})
	case score < 0 || score > total:
		return invalid(&user.FieldError{Field: "score", Reason: fmt.Sprintf("must be between 0 and %d", total)})
	case percentage < 0 || percentage > 100:
		return invalid(&user.FieldError{Field: "percentage", Reason: "must be between 0 and 100"})
	}
	return nil
}

func (s *SQLiteStore) SaveQuizAttempt(ctx context.Context, userID int64, score, totalQuestions, percentage int) (*quizattempt.Attempt, error) {
	if err := validateAttempt(score, totalQuestions, percentage); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: save attempt: %w", err)
	}
	defer tx.Rollback()

	attempt, err := s.insertAttempt(ctx, tx, userID, "", score, totalQuestions, percentage)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: save attempt: %w", err)
	}
	return attempt, nil
}

// RecordQuizCompletion saves the attempt and overwrites the user's score in
// one transaction: either both land or neither does.
func (s *SQLiteStore) RecordQuizCompletion(ctx context.Context, userID int64, runID string, score, totalQuestions int) (*quizattempt.Attempt, error) {
	percentage := quizattempt.Percentage(score, totalQuestions)
	if err := validateAttempt(score, totalQuestions, percentage); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: record completion: %w", err)
	}
	defer tx.Rollback()

	attempt, err := s.insertAttempt(ctx, tx, userID, runID, score, totalQuestions, percentage)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE users SET score = ? WHERE id = ?", score, userID); err != nil {
		return nil, fmt.Errorf("store: record completion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: record completion: %w", err)
	}
	return attempt, nil
}

func (s *SQLiteStore) insertAttempt(ctx context.Context, tx *sql.Tx, userID int64, runID string, score, total, percentage int) (*quizattempt.Attempt, error) {
	exists, err := userExists(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("store: save attempt: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	completedAt := s.now().UnixMilli()
	result, err := tx.ExecContext(ctx,
		"INSERT INTO quiz_attempts (user_id, run_id, score, total_questions, percentage, completed_at) VALUES (?, ?, ?, ?, ?, ?)",
		userID, runID, score, total, percentage, completedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store: save attempt: %w", err)
	}

	attemptID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: save attempt: %w", err)
	}

	return &quizattempt.Attempt{
		ID:             attemptID,
		UserID:         userID,
		RunID:          runID,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		CompletedAt:    time.UnixMilli(completedAt),
	}, nil
}

// GetUserQuizAttempts returns the user's attempts, most recent first.
func (s *SQLiteStore) GetUserQuizAttempts(ctx context.Context, userID int64) ([]quizattempt.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, run_id, score, total_questions, percentage, completed_at
		FROM quiz_attempts
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list attempts: %w", err)
	}
	defer rows.Close()

	attempts := []quizattempt.Attempt{}
	for rows.Next() {
		var a quizattempt.Attempt
		var completedAt int64
		if err := rows.Scan(&a.ID, &a.UserID, &a.RunID, &a.Score, &a.TotalQuestions, &a.Percentage, &completedAt); err != nil {
			return nil, fmt.Errorf("store: list attempts: %w", err)
		}
		a.CompletedAt = time.UnixMilli(completedAt)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list attempts: %w", err)
	}
	return attempts, nil
}

func (s *SQLiteStore) GetUserStats(ctx context.Context, userID int64) (quizattempt.Stats, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return quizattempt.Stats{}, err
	}

	attempts, err := s.GetUserQuizAttempts(ctx, userID)
	if err != nil {
		return quizattempt.Stats{}, err
	}

	return quizattempt.ComputeStats(attempts, u.Score), nil
}
