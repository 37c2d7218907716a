package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rizopoulos/portfoliobackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// UsernameContextKey is the key used to store the session's username in the
// request context.
const UsernameContextKey ContextKey = "username"

// SessionCookieName is the HTTP-only cookie carrying the opaque session token
const SessionCookieName = "portfolio_session"

// RequireAuth gates every state-changing route behind an authenticated admin
// session. The cookie's token is looked up server-side; an absent, unknown or
// expired session means 401 with no state change.
func RequireAuth(sessions repository.SessionRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
				return
			}

			session, err := sessions.GetValid(cookie.Value, time.Now().Unix())
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
				return
			}

			ctx := context.WithValue(r.Context(), UsernameContextKey, session.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
