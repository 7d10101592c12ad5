package quizrun

// DefaultQuestionCount is the size of a quiz run when the bank is large enough.
const DefaultQuestionCount = 10

// Config holds optional constraints for a quiz run.
type Config struct {
	MaxQuestions int // 0 = DefaultQuestionCount
}

// DefaultConfig returns a config sampling DefaultQuestionCount questions.
func DefaultConfig() Config {
	return Config{MaxQuestions: DefaultQuestionCount}
}

func (c Config) questionCount() int {
	if c.MaxQuestions <= 0 {
		return DefaultQuestionCount
	}
	return c.MaxQuestions
}
