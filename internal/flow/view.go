package flow

import (
	"github.com/antigolpes/backend/internal/domain/question"
	"github.com/antigolpes/backend/internal/session"
)

// View is what the presentation layer needs to draw the active screen.
type View struct {
	Screen  Screen            `json:"screen" example:"quiz"`
	Targets []Screen          `json:"targets"`
	User    *session.Snapshot `json:"user,omitempty"`

	QuestionNumber int           `json:"question_number,omitempty" example:"3"`
	TotalQuestions int           `json:"total_questions,omitempty" example:"10"`
	Question       *QuestionView `json:"question,omitempty"`
	Score          int           `json:"score" example:"2"`
	Percentage     int           `json:"percentage,omitempty" example:"20"`

	LastAnswerCorrect *bool  `json:"last_answer_correct,omitempty"`
	Tip               string `json:"tip,omitempty"`
}

// QuestionView hides the correct label until the question is answered.
type QuestionView struct {
	Text    string            `json:"text"`
	Options []question.Option `json:"options"`
	Correct string            `json:"correct,omitempty"`
}

// View returns a snapshot of the active screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Screen:  c.sess.Screen,
		Targets: Targets(c.sess.Screen),
	}
	if c.sess.User != nil {
		u := *c.sess.User
		v.User = &u
	}

	run := c.sess.Run
	switch c.sess.Screen {
	case Quiz, Result:
		q, ok := run.Current()
		if !ok {
			break
		}
		v.QuestionNumber = run.Index + 1
		v.TotalQuestions = run.Total()
		v.Score = run.Score
		v.Question = &QuestionView{
			Text:    q.Question,
			Options: append([]question.Option(nil), q.Options...),
		}
		if run.Answered() {
			correct := *run.LastAnswerCorrect
			v.LastAnswerCorrect = &correct
			v.Question.Correct = q.Correct
			v.Tip = q.Tip
		}
	case End:
		v.TotalQuestions = run.Total()
		v.Score = run.Score
		v.Percentage = run.Percentage()
	}
	return v
}
