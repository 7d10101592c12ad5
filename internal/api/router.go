package api

import "net/http"

// RegisterRoutes wires every handler onto mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Flow
	mux.HandleFunc("GET /state", h.getState)
	mux.HandleFunc("POST /navigate", h.navigate)

	// Accounts
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /interests", h.selectInterests)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)

	// Quiz
	mux.HandleFunc("POST /quiz/start", h.startQuiz)
	mux.HandleFunc("POST /quiz/answer", h.submitAnswer)
	mux.HandleFunc("POST /quiz/next", h.next)
	mux.HandleFunc("POST /quiz/replay", h.replay)
	mux.HandleFunc("POST /quiz/profile", h.goToProfile)

	// Profile
	mux.HandleFunc("GET /profile", h.getProfile)
	mux.HandleFunc("GET /profile/report", h.getReport)

	// Questions
	mux.HandleFunc("GET /questions", h.listQuestions)

	// Admin
	mux.HandleFunc("GET /admin/users", h.listUsers)
	mux.HandleFunc("PUT /admin/users/{userID}", h.updateUser)
	mux.HandleFunc("DELETE /admin/users/{userID}", h.deleteUser)
}
