package question_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/antigolpes/backend/internal/domain/question"
)

func makeQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			Question: fmt.Sprintf("Question %d", i),
			Options: []question.Option{
				{Label: "A", Text: "first"},
				{Label: "B", Text: "second"},
			},
			Correct: "A",
			Tip:     "tip",
		}
	}
	return qs
}

func TestDefaultBank(t *testing.T) {
	bank, err := question.Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bank.Len() < 10 {
		t.Errorf("expected at least 10 questions in default dataset, got %d", bank.Len())
	}
}

func TestRandomSubset_NoRepeats(t *testing.T) {
	bank, err := question.New(makeQuestions(25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for run := 0; run < 50; run++ {
		subset := bank.RandomSubset(10)
		if len(subset) != 10 {
			t.Fatalf("expected 10 questions, got %d", len(subset))
		}

		seen := make(map[string]bool)
		for _, q := range subset {
			if seen[q.Question] {
				t.Fatalf("question %q repeated within one run", q.Question)
			}
			seen[q.Question] = true
		}
	}
}

func TestRandomSubset_SmallBank(t *testing.T) {
	bank, err := question.New(makeQuestions(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subset := bank.RandomSubset(10)
	if len(subset) != 4 {
		t.Errorf("expected 4 questions (all available), got %d", len(subset))
	}
}

func TestRandomSubset_Randomized(t *testing.T) {
	bank, err := question.New(makeQuestions(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := bank.RandomSubset(20)
	different := false
	for i := 0; i < 10 && !different; i++ {
		next := bank.RandomSubset(20)
		for j := range next {
			if next[j].Question != first[j].Question {
				different = true
				break
			}
		}
	}

	if !different {
		t.Error("expected question order to vary between runs")
	}
}

func TestRandomSubset_EveryQuestionReachable(t *testing.T) {
	bank, err := question.New(makeQuestions(15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hits := make(map[string]int)
	for i := 0; i < 500; i++ {
		for _, q := range bank.RandomSubset(10) {
			hits[q.Question]++
		}
	}

	if len(hits) != 15 {
		t.Errorf("expected all 15 questions to be sampled at least once, got %d", len(hits))
	}
}

func TestRandomSubset_Empty(t *testing.T) {
	bank, err := question.New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := bank.RandomSubset(10); len(got) != 0 {
		t.Errorf("expected empty subset, got %d", len(got))
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	bank, err := question.New(makeQuestions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := bank.All()
	all[0].Question = "mutated"

	if bank.All()[0].Question == "mutated" {
		t.Error("expected All to return a copy")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *question.Question)
	}{
		{"empty text", func(q *question.Question) { q.Question = "" }},
		{"one option", func(q *question.Question) { q.Options = q.Options[:1] }},
		{"duplicate label", func(q *question.Question) { q.Options[1].Label = "A" }},
		{"empty label", func(q *question.Question) { q.Options[1].Label = "" }},
		{"unknown correct", func(q *question.Question) { q.Correct = "Z" }},
		{"lowercase correct", func(q *question.Question) { q.Correct = "a" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := makeQuestions(2)
			tt.mutate(&qs[1])

			_, err := question.New(qs)
			if !errors.Is(err, question.ErrInvalidQuestion) {
				t.Errorf("expected ErrInvalidQuestion, got %v", err)
			}
		})
	}
}

func TestIsCorrect_CaseSensitive(t *testing.T) {
	q := makeQuestions(1)[0]

	if !q.IsCorrect("A") {
		t.Error("expected A to be correct")
	}
	if q.IsCorrect("a") {
		t.Error("expected lowercase a to be incorrect")
	}
}

const yamlDataset = `
- question: "Pergunta um"
  options:
    - label: A
      text: "Sim"
    - label: B
      text: "Não"
  correct: B
  tip: "Desconfie."
- question: "Pergunta dois"
  options:
    - label: A
      text: "Sim"
    - label: B
      text: "Não"
  correct: A
  tip: "Confirme."
`

const jsonDataset = `[
  {"question": "Pergunta um", "options": [{"label": "A", "text": "Sim"}, {"label": "B", "text": "Não"}], "correct": "B", "tip": "Desconfie."},
  {"question": "Pergunta dois", "options": [{"label": "A", "text": "Sim"}, {"label": "B", "text": "Não"}], "correct": "A", "tip": "Confirme."}
]`

func TestLoadFile_YAMLAndJSONMatch(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "questions.yaml")
	jsonPath := filepath.Join(dir, "questions.json")

	if err := os.WriteFile(yamlPath, []byte(yamlDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(jsonDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	fromYAML, err := question.LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("yaml: unexpected error: %v", err)
	}
	fromJSON, err := question.LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("json: unexpected error: %v", err)
	}

	a, b := fromYAML.All(), fromJSON.All()
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected 2 questions each, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Question != b[i].Question || a[i].Correct != b[i].Correct || a[i].Tip != b[i].Tip {
			t.Errorf("question %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.txt")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := question.LoadFile(path); err == nil {
		t.Error("expected error for unsupported extension, got nil")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := question.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
