package id

import "github.com/google/uuid"

// NewRunID returns a random identifier for a quiz run.
func NewRunID() string {
	return uuid.NewString()
}
