package session

import (
	"net/http"
	"strings"
)

// CookieName carries the session token in browsers.
const CookieName = "synapse_session"

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Load attaches the signed-in user, if any, to the request context. It never
// rejects a request.
func Load(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sid, err := m.Resolve(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if user, ok := m.Current(r.Context(), sid); ok {
				r = r.WithContext(WithUser(r.Context(), sid, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession sends anonymous requests to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits only users with role. Anonymous requests go to the login
// page and users with another role go to their own home.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := FromContext(r.Context())
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			if user.Role != role {
				http.Redirect(w, r, user.Role.HomePath(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuthenticated keeps signed-in users off the login and register
// pages.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := FromContext(r.Context()); ok {
			http.Redirect(w, r, user.Role.HomePath(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
