package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/blindtasting/pkg/httpx"
	"github.com/ghuser/blindtasting/pkg/logger"
)

// LoadIdentity is a chi middleware that attaches the session identity to the
// request context when one exists. Anonymous requests pass through untouched;
// handlers treat them as device-local.
func LoadIdentity(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.DebugContext(r.Context(), "ignoring invalid session cookie", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			id, err := identityFromSession(session)
			if err != nil {
				if !errors.Is(err, ErrNoIdentity) {
					log.WarnContext(r.Context(), "invalid session data", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth is a chi middleware that enforces a signed-in session.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a user id.
//
// After this middleware, handlers can safely call auth.IdentityFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			id, err := identityFromSession(session)
			if err != nil {
				log.WarnContext(r.Context(), "session without identity", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
