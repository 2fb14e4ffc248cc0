package middleware

import (
	"context"
	"net/http"

	"github.com/openchat-labs/chat-backend/internal/api/response"
	"github.com/openchat-labs/chat-backend/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SessionAuth gates protected routes behind a valid session cookie. It
// only checks the session store; the embedded user snapshot stands in
// for the user record until the session ends.
type SessionAuth struct {
	sessions   domain.SessionStore
	cookieName string
}

// NewSessionAuth creates the session guard middleware
func NewSessionAuth(sessions domain.SessionStore, cookieName string) *SessionAuth {
	return &SessionAuth{sessions: sessions, cookieName: cookieName}
}

// Authenticate rejects requests without a live session and otherwise
// threads the session's user id through the request context.
func (m *SessionAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			response.Message(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		session, err := m.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			response.Message(w, http.StatusInternalServerError, "Server error")
			return
		}
		if session == nil {
			response.Message(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, session.User.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID gets the authenticated user id from context
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
