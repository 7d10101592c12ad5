package quizrun

import (
	"errors"
	"time"

	"github.com/antigolpes/backend/internal/domain/question"
	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/id"
)

var (
	ErrFinished        = errors.New("no active question")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("question not answered yet")
)

// Run is one pass through a sampled subset of the bank.
type Run struct {
	ID                string
	Questions         []question.Question
	Index             int
	Score             int
	LastAnswerCorrect *bool // nil until the current question is answered
	StartedAt         time.Time
}

// New samples a fresh run from the bank.
func New(bank *question.Bank, config Config) *Run {
	return &Run{
		ID:        id.NewRunID(),
		Questions: bank.RandomSubset(config.questionCount()),
		StartedAt: time.Now(),
	}
}

func (r *Run) Total() int {
	return len(r.Questions)
}

// Current returns the active question.
func (r *Run) Current() (question.Question, bool) {
	if r.Index < 0 || r.Index >= len(r.Questions) {
		return question.Question{}, false
	}
	return r.Questions[r.Index], true
}

// Answered reports whether the current question has been answered.
func (r *Run) Answered() bool {
	return r.LastAnswerCorrect != nil
}

// Answer scores label against the current question.
func (r *Run) Answer(label string) (bool, error) {
	q, ok := r.Current()
	if !ok {
		return false, ErrFinished
	}
	if r.Answered() {
		return false, ErrAlreadyAnswered
	}

	correct := q.IsCorrect(label)
	if correct {
		r.Score++
	}
	r.LastAnswerCorrect = &correct
	return correct, nil
}

// HasNext reports whether another question follows the current one.
func (r *Run) HasNext() bool {
	return r.Index+1 < len(r.Questions)
}

// Advance moves to the next question. The current one must be answered.
func (r *Run) Advance() error {
	if !r.Answered() {
		return ErrNotAnswered
	}
	if !r.HasNext() {
		return ErrFinished
	}
	r.Index++
	r.LastAnswerCorrect = nil
	return nil
}

func (r *Run) Percentage() int {
	return quizattempt.Percentage(r.Score, r.Total())
}
