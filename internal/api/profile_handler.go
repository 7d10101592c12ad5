package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/antigolpes/backend/internal/domain/quizattempt"
	"github.com/antigolpes/backend/internal/flow"
)

// ── Request / Response types ────────────────────────────────────────────────

type AttemptResponse struct {
	ID             int64     `json:"id" example:"12"`
	Score          int       `json:"score" example:"7"`
	TotalQuestions int       `json:"total_questions" example:"10"`
	Percentage     int       `json:"percentage" example:"70"`
	CompletedAt    time.Time `json:"completed_at"`
}

type StatsResponse struct {
	TotalAttempts int              `json:"total_attempts" example:"3"`
	AverageScore  float64          `json:"average_score" example:"5"`
	BestScore     int              `json:"best_score" example:"7"`
	LastAttempt   *AttemptResponse `json:"last_attempt,omitempty"`
}

type PointResponse struct {
	Label      string `json:"label" example:"Jogada 1"`
	Score      int    `json:"score" example:"3"`
	Percentage int    `json:"percentage" example:"30"`
	Date       string `json:"date" example:"14/03"`
}

type ProfileResponse struct {
	User      UserResponse      `json:"user"`
	Interests []string          `json:"interests"`
	Stats     StatsResponse     `json:"stats"`
	Attempts  []AttemptResponse `json:"attempts"`
	Chart     []PointResponse   `json:"chart"`
}

func toAttemptResponse(a quizattempt.Attempt) AttemptResponse {
	return AttemptResponse{
		ID:             a.ID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		Percentage:     a.Percentage,
		CompletedAt:    a.CompletedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getProfile returns the logged-in user's history and statistics.
// @Summary      Profile
// @Description  Returns the logged-in user's stats, attempts (most recent first) and chart series (oldest first).
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /profile [get]
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	current := h.flow.CurrentUser()
	if current == nil {
		h.handleError(w, flow.ErrNotAuthenticated, "user")
		return
	}

	p, err := h.progress.Profile(r.Context(), current.UserID)
	if h.handleError(w, err, "user") {
		return
	}

	attempts := make([]AttemptResponse, len(p.Attempts))
	for i, a := range p.Attempts {
		attempts[i] = toAttemptResponse(a)
	}

	chart := make([]PointResponse, len(p.Series))
	for i, pt := range p.Series {
		chart[i] = PointResponse{
			Label:      pt.Label,
			Score:      pt.Score,
			Percentage: pt.Percentage,
			Date:       pt.Date,
		}
	}

	stats := StatsResponse{
		TotalAttempts: p.Stats.TotalAttempts,
		AverageScore:  p.Stats.AverageScore,
		BestScore:     p.Stats.BestScore,
	}
	if p.Stats.LastAttempt != nil {
		last := toAttemptResponse(*p.Stats.LastAttempt)
		stats.LastAttempt = &last
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		User: UserResponse{
			ID:        p.User.ID,
			Name:      p.User.Name,
			Email:     p.User.Email,
			Score:     p.User.Score,
			CreatedAt: p.User.CreatedAt,
		},
		Interests: p.Interests,
		Stats:     stats,
		Attempts:  attempts,
		Chart:     chart,
	})
}

// getReport downloads the logged-in user's progress report.
// @Summary      Progress report
// @Description  Renders the stats, score chart and attempt history as a PDF.
// @Tags         Profile
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /profile/report [get]
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	current := h.flow.CurrentUser()
	if current == nil {
		h.handleError(w, flow.ErrNotAuthenticated, "user")
		return
	}

	// Render fully before writing so a failure can still become a JSON error.
	var buf bytes.Buffer
	if h.handleError(w, h.progress.WriteReport(r.Context(), current.UserID, &buf), "user") {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="progresso-%d.pdf"`, current.UserID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// listQuestions returns the whole question bank.
// @Summary      List questions
// @Description  Returns every question of the loaded dataset, in dataset order.
// @Tags         Questions
// @Produce      json
// @Success      200  {array}  question.Question
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.bank.All())
}
