package session

import "context"

// Snapshot is the part of the session that survives a restart: who is
// logged in and their last known score.
type Snapshot struct {
	UserID int64  `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Slot persists the current-session snapshot between process runs.
type Slot interface {
	// Load returns nil, nil when no session is stored.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}
