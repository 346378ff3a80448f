package handler

import (
	"log/slog"
	"net/http"

	"github.com/campushub/identity/internal/service"
)

// UserHandler serves administrative user queries.
type UserHandler struct {
	store *service.CredentialStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store *service.CredentialStore) *UserHandler {
	return &UserHandler{store: store}
}

// HandleList returns every user. Restricted to the hod role by the route.
// GET /api/users
// Response: {"users":[{...}]}
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": toUserDTOs(users),
	})
}
