package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/campushub/identity/internal/domain"
	"github.com/campushub/identity/internal/service"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext extracts the verified token claims from the request
// context. Returns the zero value and false if the request is not
// authenticated.
func ClaimsFromContext(ctx context.Context) (service.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(service.TokenClaims)
	return claims, ok
}

// RequireAuth protects routes that need an authenticated caller. It reads
// the bearer token from the Authorization header, verifies it statelessly,
// and injects the claims into the request context. Missing, malformed,
// expired, or badly signed tokens all get a 401.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing or malformed Authorization header.")
			return
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on an explicit set of allowed roles. It must
// run inside RequireAuth. A valid token with an insufficient role gets a
// 403, never a 401.
func RequireRole(auth *service.AuthService, next http.Handler, allowed ...domain.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		if err := auth.Authorize(claims.Role, allowed...); err != nil {
			writeError(w, http.StatusForbidden, "Insufficient role.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SecurityHeaders applies baseline security headers to every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
