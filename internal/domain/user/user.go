package user

import (
	"fmt"
	"regexp"
	"time"
)

// Whitespace covers Unicode separators and BOM too, not just ASCII \s.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// User is a registered account. Password is kept in plaintext: the admin
// view is able to reveal it.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	Score     int
	CreatedAt time.Time
}

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func ValidateEmail(email string) error {
	if email == "" {
		return &FieldError{Field: "email", Reason: "is required"}
	}
	if !emailPattern.MatchString(email) {
		return &FieldError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}

// ValidateNew checks the fields required to register an account.
func ValidateNew(name, email, password string) error {
	if name == "" {
		return &FieldError{Field: "name", Reason: "is required"}
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return &FieldError{Field: "password", Reason: "is required"}
	}
	return nil
}

// Update is a partial change to an account; nil fields are left untouched.
type Update struct {
	Name     *string
	Email    *string
	Password *string
	Score    *int
}

func (u Update) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return &FieldError{Field: "name", Reason: "is required"}
	}
	if u.Email != nil {
		if err := ValidateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Password != nil && *u.Password == "" {
		return &FieldError{Field: "password", Reason: "is required"}
	}
	if u.Score != nil && *u.Score < 0 {
		return &FieldError{Field: "score", Reason: "must not be negative"}
	}
	return nil
}

// Apply returns a copy of usr with the update applied.
func (u Update) Apply(usr User) User {
	if u.Name != nil {
		usr.Name = *u.Name
	}
	if u.Email != nil {
		usr.Email = *u.Email
	}
	if u.Password != nil {
		usr.Password = *u.Password
	}
	if u.Score != nil {
		usr.Score = *u.Score
	}
	return usr
}
