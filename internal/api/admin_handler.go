package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/antigolpes/backend/internal/domain/user"
)

// ── Request / Response types ────────────────────────────────────────────────

// AdminUserResponse includes the stored password: the admin view can reveal it.
type AdminUserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Ana"`
	Email     string    `json:"email" example:"ana@exemplo.com"`
	Password  string    `json:"password" example:"segredo123"`
	Score     int       `json:"score" example:"7"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" example:"Ana Maria"`
	Email    *string `json:"email,omitempty" example:"anamaria@exemplo.com"`
	Password *string `json:"password,omitempty" example:"novasenha"`
	Score    *int    `json:"score,omitempty" example:"5"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Name == nil && r.Email == nil && r.Password == nil && r.Score == nil {
		return errors.New("at least one field is required")
	}
	return nil
}

func parseUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	return id, err == nil && id > 0
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listUsers lists every account.
// @Summary      List users
// @Description  Returns every account ordered by id, passwords included.
// @Tags         Admin
// @Produce      json
// @Success      200  {array}   AdminUserResponse
// @Failure      500  {object}  map[string]string
// @Router       /admin/users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.GetAllUsers(r.Context())
	if h.handleError(w, err, "user") {
		return
	}

	response := make([]AdminUserResponse, len(users))
	for i, u := range users {
		response[i] = AdminUserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Password:  u.Password,
			Score:     u.Score,
			CreatedAt: u.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// updateUser edits an account.
// @Summary      Update a user
// @Description  Patches name, email, password or score. A changed email is re-validated.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        userID  path      int                true  "User ID"
// @Param        body    body      UpdateUserRequest  true  "Fields to change"
// @Success      200     {object}  AdminUserResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      409     {object}  map[string]string  "email already registered"
// @Failure      500     {object}  map[string]string
// @Router       /admin/users/{userID} [put]
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := parseUserID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.store.UpdateUser(ctx, userID, user.Update{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Score:    req.Score,
	})
	if h.handleError(w, err, "user") {
		return
	}

	u, err := h.store.GetUser(ctx, userID)
	if h.handleError(w, err, "user") {
		return
	}

	respondJSON(w, http.StatusOK, AdminUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Score:     u.Score,
		CreatedAt: u.CreatedAt,
	})
}

// deleteUser removes an account and its history.
// @Summary      Delete a user
// @Description  Deletes the account with its attempts and interests.
// @Tags         Admin
// @Param        userID  path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/users/{userID} [delete]
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if h.handleError(w, h.store.DeleteUser(r.Context(), userID), "user") {
		return
	}
	h.logger.Info("user deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
