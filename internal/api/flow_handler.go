package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/antigolpes/backend/internal/flow"
)

// ── Request / Response types ────────────────────────────────────────────────

type NavigateRequest struct {
	Screen string `json:"screen" example:"login"`
}

func (r *NavigateRequest) Validate() error {
	if r.Screen == "" {
		return errors.New("screen is required")
	}
	_, err := flow.ParseScreen(r.Screen)
	return err
}

type RegisterRequest struct {
	Name     string `json:"name" example:"Ana"`
	Email    string `json:"email" example:"ana@exemplo.com"`
	Password string `json:"password" example:"segredo123"`
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type InterestsRequest struct {
	Interests []string `json:"interests" example:"Redes sociais,Bancos"`
}

func (r *InterestsRequest) Validate() error {
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" example:"ana@exemplo.com"`
	Password string `json:"password" example:"segredo123"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type AnswerRequest struct {
	Label string `json:"label" example:"B"`
}

func (r *AnswerRequest) Validate() error {
	if r.Label == "" {
		return errors.New("label is required")
	}
	return nil
}

type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Ana"`
	Email     string    `json:"email" example:"ana@exemplo.com"`
	Score     int       `json:"score" example:"7"`
	CreatedAt time.Time `json:"created_at"`
}

type AnswerResponse struct {
	Correct bool      `json:"correct" example:"true"`
	State   flow.View `json:"state"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getState returns the active screen and what it needs to render.
// @Summary      Current screen state
// @Description  Returns the active screen, reachable screens, current user and quiz progress.
// @Tags         Flow
// @Produce      json
// @Success      200  {object}  flow.View
// @Router       /state [get]
func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.flow.View())
}

// navigate follows a plain screen transition.
// @Summary      Navigate to a screen
// @Description  Follows a plain transition (e.g. welcome → login). Transitions owned by quiz actions are rejected.
// @Tags         Flow
// @Accept       json
// @Produce      json
// @Param        body  body      NavigateRequest  true  "Target screen"
// @Success      200   {object}  flow.View
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string  "profile requires login"
// @Failure      409   {object}  map[string]string  "transition not allowed"
// @Router       /navigate [post]
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	to, _ := flow.ParseScreen(req.Screen)
	if h.handleError(w, h.flow.Navigate(to), "screen") {
		return
	}
	respondJSON(w, http.StatusOK, h.flow.View())
}

// register creates an account.
// @Summary      Register
// @Description  Creates an account from the register screen. Does not log in.
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New account"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "email already registered"
// @Failure      500   {object}  map[string]string
// @Router       /register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.flow.Register(r.Context(), req.Name, req.Email, req.Password)
	if h.handleError(w, err, "user") {
		return
	}

	respondJSON(w, http.StatusCreated, UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Score:     u.Score,
		CreatedAt: u.CreatedAt,
	})
}

// selectInterests stores the topics picked after registering.
// @Summary      Select interests
// @Description  Saves the topics picked on the interests screen for the account just registered.
// @Tags         Accounts
// @Accept       json
// @Param        body  body  InterestsRequest  true  "Selected topics"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /interests [post]
func (h *Handler) selectInterests(w http.ResponseWriter, r *http.Request) {
	var req InterestsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.handleError(w, h.flow.SelectInterests(r.Context(), req.Interests), "user") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// login authenticates a user.
// @Summary      Log in
// @Description  Authenticates from the login screen and remembers the user across restarts.
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  session.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.flow.Login(r.Context(), req.Email, req.Password)
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// logout ends the session.
// @Summary      Log out
// @Description  Clears the session, draws a new question sample and returns to welcome.
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  flow.View
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /logout [post]
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.flow.Logout(r.Context()), "session") {
		return
	}
	respondJSON(w, http.StatusOK, h.flow.View())
}

// ── Quiz ────────────────────────────────────────────────────────────────────

// startQuiz begins a new quiz run.
// @Summary      Start a quiz
// @Description  Samples up to 10 questions and shows the first one.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  flow.View
// @Failure      409  {object}  map[string]string
// @Router       /quiz/start [post]
func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.flow.StartQuiz(), "quiz") {
		return
	}
	respondJSON(w, http.StatusOK, h.flow.View())
}

// submitAnswer answers the active question.
// @Summary      Answer the active question
// @Description  Scores the option label (exact, case-sensitive) and shows the result with its tip.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      AnswerRequest  true  "Chosen option"
// @Success      200   {object}  AnswerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /quiz/answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	correct, err := h.flow.SubmitAnswer(req.Label)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, AnswerResponse{Correct: correct, State: h.flow.View()})
}

// next leaves the result screen.
// @Summary      Next question
// @Description  Shows the next question, or finishes the run and records it for a logged-in user.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  flow.View
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string  "result could not be saved; retry"
// @Router       /quiz/next [post]
func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.flow.Next(r.Context()), "user") {
		return
	}
	respondJSON(w, http.StatusOK, h.flow.View())
}

// replay starts over from the end screen.
// @Summary      Play again
// @Description  Draws a new sample and restarts from the first question.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  flow.View
// @Failure      409  {object}  map[string]string
// @Router       /quiz/replay [post]
func (h *Handler) replay(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.flow.Replay(), "quiz") {
		return
	}
	respondJSON(w, http.StatusOK, h.flow.View())
}

// goToProfile leaves the end screen for the profile.
// @Summary      Back to profile
// @Description  Leaves the end screen for the logged-in user's profile.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  flow.View
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /quiz/profile [post]
func (h *Handler) goToProfile(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.flow.GoToProfile(), "profile") {
		return
	}
	respondJSON(w, http.StatusOK, h.flow.View())
}
