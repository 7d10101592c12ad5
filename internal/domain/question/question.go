package question

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrInvalidQuestion = errors.New("invalid question")

// Option is one labeled alternative of a multiple-choice question.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// Question is a single scam scenario with its alternatives, the label of the
// correct alternative and a remediation tip shown after answering.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Options  []Option `json:"options" yaml:"options"`
	Correct  string   `json:"correct" yaml:"correct"`
	Tip      string   `json:"tip" yaml:"tip"`
}

// IsCorrect reports whether label is the correct alternative.
// The comparison is exact and case-sensitive.
func (q Question) IsCorrect(label string) bool {
	return label == q.Correct
}

func (q Question) validate() error {
	if q.Question == "" {
		return errors.New("question text cannot be empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if opt.Label == "" {
			return errors.New("option label cannot be empty")
		}
		if seen[opt.Label] {
			return fmt.Errorf("duplicate option label %q", opt.Label)
		}
		seen[opt.Label] = true
	}
	if !seen[q.Correct] {
		return fmt.Errorf("correct label %q does not match any option", q.Correct)
	}
	return nil
}

// Bank is the immutable, ordered set of available questions.
type Bank struct {
	questions []Question
}

// New validates the questions and builds a Bank from them.
func New(questions []Question) (*Bank, error) {
	for i, q := range questions {
		if err := q.validate(); err != nil {
			return nil, fmt.Errorf("%w: #%d: %v", ErrInvalidQuestion, i, err)
		}
	}

	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Bank{questions: qs}, nil
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// All returns a copy of every question in dataset order.
func (b *Bank) All() []Question {
	all := make([]Question, len(b.questions))
	copy(all, b.questions)
	return all
}

// RandomSubset returns min(n, Len()) distinct questions in random order.
func (b *Bank) RandomSubset(n int) []Question {
	if n <= 0 || len(b.questions) == 0 {
		return []Question{}
	}

	shuffled := b.All()
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}
