package handler

import (
	"net/http"

	"github.com/campushub/identity/internal/domain"
	"github.com/campushub/identity/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Every protected
// route declares its own allowed role set; there is no role hierarchy.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService) {
	authHandler := NewAuthHandler(auth)
	userHandler := NewUserHandler(auth.Store())

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)

	mux.Handle("GET /api/auth/me",
		RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))
	mux.Handle("POST /api/auth/change-password",
		RequireAuth(auth, http.HandlerFunc(authHandler.HandleChangePassword)))

	mux.Handle("GET /api/users",
		RequireAuth(auth, RequireRole(auth, http.HandlerFunc(userHandler.HandleList), domain.RoleHOD)))
}
