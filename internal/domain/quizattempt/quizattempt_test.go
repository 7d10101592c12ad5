package quizattempt_test

import (
	"testing"
	"time"

	"github.com/antigolpes/backend/internal/domain/quizattempt"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{7, 10, 70},
		{1, 3, 33},
		{2, 3, 67},
		{0, 10, 0},
		{10, 10, 100},
		{1, 8, 13}, // 12.5 rounds up
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := quizattempt.Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := []quizattempt.Attempt{
		{ID: 3, Score: 7, TotalQuestions: 10, CompletedAt: base.Add(2 * time.Hour)},
		{ID: 2, Score: 5, TotalQuestions: 10, CompletedAt: base.Add(time.Hour)},
		{ID: 1, Score: 3, TotalQuestions: 10, CompletedAt: base},
	}

	stats := quizattempt.ComputeStats(attempts, 0)

	if stats.TotalAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", stats.TotalAttempts)
	}
	if stats.AverageScore != 5.0 {
		t.Errorf("expected average 5.0, got %v", stats.AverageScore)
	}
	if stats.BestScore != 7 {
		t.Errorf("expected best 7, got %d", stats.BestScore)
	}
	if stats.LastAttempt == nil || stats.LastAttempt.ID != 3 {
		t.Errorf("expected last attempt #3, got %+v", stats.LastAttempt)
	}
}

func TestComputeStats_NoAttemptsUsesStoredScore(t *testing.T) {
	stats := quizattempt.ComputeStats(nil, 4)

	if stats.TotalAttempts != 0 || stats.AverageScore != 0 {
		t.Errorf("expected zero totals, got %+v", stats)
	}
	if stats.BestScore != 4 {
		t.Errorf("expected best to fall back to stored score 4, got %d", stats.BestScore)
	}
	if stats.LastAttempt != nil {
		t.Error("expected no last attempt")
	}
}

func TestSeries_OldestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	attempts := []quizattempt.Attempt{
		{ID: 2, Score: 8, Percentage: 80, CompletedAt: base.AddDate(0, 0, 1)},
		{ID: 1, Score: 4, Percentage: 40, CompletedAt: base},
	}

	points := quizattempt.Series(attempts)

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Label != "Jogada 1" || points[0].Score != 4 || points[0].Date != "01/03" {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	if points[1].Label != "Jogada 2" || points[1].Percentage != 80 || points[1].Date != "02/03" {
		t.Errorf("unexpected second point: %+v", points[1])
	}
}
