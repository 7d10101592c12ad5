package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/antigolpes/backend/internal/session"
)

// ============================================================================
// Interests
// ============================================================================

// SaveUserInterests replaces the user's interests. Blank and repeated
// entries are dropped; the first occurrence keeps its position.
func (s *SQLiteStore) SaveUserInterests(ctx context.Context, userID int64, interests []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: save interests: %w", err)
	}
	defer tx.Rollback()

	exists, err := userExists(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("store: save interests: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_interests WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("store: save interests: %w", err)
	}

	seen := make(map[string]bool, len(interests))
	position := 0
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" || seen[interest] {
			continue
		}
		seen[interest] = true

		_, err := tx.ExecContext(ctx,
			"INSERT INTO user_interests (user_id, interest, position) VALUES (?, ?, ?)",
			userID, interest, position,
		)
		if err != nil {
			return fmt.Errorf("store: save interests: %w", err)
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: save interests: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUserInterests(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT interest FROM user_interests WHERE user_id = ? ORDER BY position", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list interests: %w", err)
	}
	defer rows.Close()

	interests := []string{}
	for rows.Next() {
		var interest string
		if err := rows.Scan(&interest); err != nil {
			return nil, fmt.Errorf("store: list interests: %w", err)
		}
		interests = append(interests, interest)
	}
	return interests, rows.Err()
}

// ============================================================================
// Current session slot
// ============================================================================

// SessionSlot exposes the single-row current_session table as a session.Slot.
func (s *SQLiteStore) SessionSlot() session.Slot {
	return sqliteSlot{s: s}
}

type sqliteSlot struct {
	s *SQLiteStore
}

func (sl sqliteSlot) Load(ctx context.Context) (*session.Snapshot, error) {
	var snap session.Snapshot
	err := sl.s.db.QueryRowContext(ctx,
		"SELECT user_id, name, score FROM current_session WHERE slot = 1",
	).Scan(&snap.UserID, &snap.Name, &snap.Score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load session: %w", err)
	}
	return &snap, nil
}

func (sl sqliteSlot) Save(ctx context.Context, snap session.Snapshot) error {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()

	_, err := sl.s.db.ExecContext(ctx, `
		INSERT INTO current_session (slot, user_id, name, score, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			score = excluded.score,
			saved_at = excluded.saved_at
	`, snap.UserID, snap.Name, snap.Score, sl.s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: save session: %w", err)
	}
	return nil
}

func (sl sqliteSlot) Clear(ctx context.Context) error {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()

	if _, err := sl.s.db.ExecContext(ctx, "DELETE FROM current_session"); err != nil {
		return fmt.Errorf("store: clear session: %w", err)
	}
	return nil
}
