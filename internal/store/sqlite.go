// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/antigolpes/backend/internal/domain/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    score INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0),
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    run_id TEXT NOT NULL DEFAULT '',
    score INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    percentage INTEGER NOT NULL,
    completed_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_completed
    ON quiz_attempts(user_id, completed_at DESC);

CREATE TABLE IF NOT EXISTS user_interests (
    user_id INTEGER NOT NULL,
    interest TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (user_id, interest),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS current_session (
    slot INTEGER PRIMARY KEY CHECK (slot = 1),
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    score INTEGER NOT NULL,
    saved_at INTEGER NOT NULL
);
`

// SQLiteStore implements Store on a local SQLite file. Writes are
// serialized by mu; each one commits before returning.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		now: time.Now,
	}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users
// ============================================================================

const userColumns = "id, name, email, password, score, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Score, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = time.UnixMilli(createdAt)
	return &u, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, name, email, password string) (*user.User, error) {
	if err := user.ValidateNew(name, email, password); err != nil {
		return nil, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}
	defer tx.Rollback()

	if taken, err := emailTaken(ctx, tx, email, 0); err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	} else if taken {
		return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, email)
	}

	createdAt := s.now()
	result, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, password, score, created_at) VALUES (?, ?, ?, 0, ?)",
		name, email, password, createdAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, email)
		}
		return nil, fmt.Errorf("store: create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}

	return &user.User{
		ID:        userID,
		Name:      name,
		Email:     email,
		Password:  password,
		Score:     0,
		CreatedAt: time.UnixMilli(createdAt.UnixMilli()),
	}, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetUserByCredentials(ctx context.Context, email, password string) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? AND password = ?", email, password,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user by credentials: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetAllUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, id int64, upd user.Update) error {
	if err := upd.Validate(); err != nil {
		return invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: update user: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanUser(tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: update user: %w", err)
	}

	if upd.Email != nil && *upd.Email != existing.Email {
		taken, err := emailTaken(ctx, tx, *upd.Email, id)
		if err != nil {
			return fmt.Errorf("store: update user: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: email %s already registered", ErrConflict, *upd.Email)
		}
	}

	updated := upd.Apply(*existing)
	_, err = tx.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password = ?, score = ? WHERE id = ?",
		updated.Name, updated.Email, updated.Password, updated.Score, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", ErrConflict, updated.Email)
		}
		return fmt.Errorf("store: update user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: update user: %w", err)
	}
	return nil
}

// UpdateUserScore overwrites the stored score with the latest quiz result,
// even when it is lower than the previous one.
func (s *SQLiteStore) UpdateUserScore(ctx context.Context, id int64, score int) error {
	if score < 0 {
		return invalid(&user.FieldError{Field: "score", Reason: "must not be negative"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "UPDATE users SET score = ? WHERE id = ?", score, id)
	if err != nil {
		return fmt.Errorf("store: update score: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update score: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the account together with its attempts, interests and
// the session slot if it points at this user.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: delete user: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM quiz_attempts WHERE user_id = ?",
		"DELETE FROM user_interests WHERE user_id = ?",
		"DELETE FROM current_session WHERE user_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("store: delete user: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("store: delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete user: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: delete user: %w", err)
	}
	return nil
}

func emailTaken(ctx context.Context, tx *sql.Tx, email string, exceptID int64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND id != ?)", email, exceptID,
	).Scan(&exists)
	return exists, err
}

func userExists(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
