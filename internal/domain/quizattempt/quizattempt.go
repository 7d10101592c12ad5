package quizattempt

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Attempt is the immutable record of one completed quiz run.
type Attempt struct {
	ID             int64
	UserID         int64
	RunID          string // quiz run that produced it; empty when saved directly
	Score          int
	TotalQuestions int
	Percentage     int // round(Score / TotalQuestions * 100)
	CompletedAt    time.Time
}

// Percentage returns round(score/total*100), or 0 when total is not positive.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Stats aggregates a user's attempt history.
type Stats struct {
	TotalAttempts int
	AverageScore  float64
	BestScore     int
	LastAttempt   *Attempt
}

// ComputeStats derives Stats from the attempts. BestScore falls back to
// storedScore when there are no attempts.
func ComputeStats(attempts []Attempt, storedScore int) Stats {
	stats := Stats{
		TotalAttempts: len(attempts),
		BestScore:     storedScore,
	}
	if len(attempts) == 0 {
		return stats
	}

	total := 0
	best := attempts[0].Score
	last := attempts[0]
	for _, a := range attempts {
		total += a.Score
		if a.Score > best {
			best = a.Score
		}
		if a.CompletedAt.After(last.CompletedAt) ||
			(a.CompletedAt.Equal(last.CompletedAt) && a.ID > last.ID) {
			last = a
		}
	}

	stats.AverageScore = float64(total) / float64(len(attempts))
	stats.BestScore = best
	stats.LastAttempt = &last
	return stats
}

// Point is one bar/line of the progress chart.
type Point struct {
	Label      string
	Score      int
	Percentage int
	Date       string // dd/mm
}

// Series orders attempts oldest first and labels them "Jogada 1", "Jogada 2", ...
func Series(attempts []Attempt) []Point {
	ordered := make([]Attempt, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CompletedAt.Equal(ordered[j].CompletedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
	})

	points := make([]Point, len(ordered))
	for i, a := range ordered {
		points[i] = Point{
			Label:      fmt.Sprintf("Jogada %d", i+1),
			Score:      a.Score,
			Percentage: a.Percentage,
			Date:       a.CompletedAt.Local().Format("02/01"),
		}
	}
	return points
}
