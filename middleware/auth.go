package middleware

import (
	"context"
	"net/http"

	"github.com/maplecrest/rinkside/sessions"
)

type contextKey string

const (
	sessionIDContextKey contextKey = "session_id"
	sessionContextKey   contextKey = "session"
)

// Auth owns the session gate. LoadSession attaches whatever session the
// cookie resolves to; RequireUser and RequireGuest decide whether the
// request may proceed.
type Auth struct {
	sessions *sessions.Manager
}

func NewAuth(manager *sessions.Manager) *Auth {
	return &Auth{sessions: manager}
}

// LoadSession resolves the session cookie and stores the session in the
// request context. Anonymous requests pass through untouched.
func (a *Auth) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, session, err := a.sessions.Load(r.Context(), r)
		if err == nil {
			ctx := context.WithValue(r.Context(), sessionIDContextKey, id)
			ctx = context.WithValue(ctx, sessionContextKey, session)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser lets authenticated requests through and bounces everyone
// else to the login page with a flash. The guarded handler never runs for
// an anonymous request.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			a.sessions.AddFlash(r.Context(), w, r, "error", "Please log in to view that resource")
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest keeps authenticated users off the entry forms.
func (a *Auth) RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the loaded session, if any.
func SessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*sessions.Session)
	return session, ok
}

// UserIDFromContext returns the authenticated user's id, if the request
// carries a logged-in session.
func UserIDFromContext(ctx context.Context) (int, bool) {
	session, ok := SessionFromContext(ctx)
	if !ok || session.UserID == 0 {
		return 0, false
	}
	return session.UserID, true
}
