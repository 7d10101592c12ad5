package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/antigolpes/backend/internal/domain/question"
	"github.com/antigolpes/backend/internal/domain/quizrun"
	"github.com/antigolpes/backend/internal/domain/user"
	"github.com/antigolpes/backend/internal/flow"
	"github.com/antigolpes/backend/internal/service"
	"github.com/antigolpes/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	flow     *flow.Controller
	store    store.Store
	progress *service.ProgressService
	bank     *question.Bank
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(ctrl *flow.Controller, s store.Store, progress *service.ProgressService, bank *question.Bank, logger *slog.Logger) *Handler {
	return &Handler{
		flow:     ctrl,
		store:    s,
		progress: progress,
		bank:     bank,
		logger:   logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the JSON body into req and validates it.
// On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req validator) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleError maps store and flow errors to HTTP responses. Returns true if
// an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	var fieldErr *user.FieldError
	switch {
	case errors.As(err, &fieldErr):
		respondError(w, http.StatusBadRequest, fieldErr.Error())
	case errors.Is(err, store.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, flow.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, flow.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "login required")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, flow.ErrInvalidTransition),
		errors.Is(err, flow.ErrWrongScreen),
		errors.Is(err, flow.ErrNoQuestions),
		errors.Is(err, quizrun.ErrAlreadyAnswered),
		errors.Is(err, quizrun.ErrNotAnswered),
		errors.Is(err, quizrun.ErrFinished):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "operation failed")
	}
	return true
}
