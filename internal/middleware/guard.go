package middleware

import (
	"net/http"

	"github.com/ghaggin/erp-console/internal/navigation"
)

// SessionState is what the guard reads to decide.
type SessionState interface {
	IsAuthenticated() bool
}

// RequireAuth lets authenticated operators through and sends everyone else
// to loginPath, carrying the requested location as the return target.
func RequireAuth(state SessionState, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !state.IsAuthenticated() {
				http.Redirect(w, r, navigation.LoginURL(loginPath, r.URL.RequestURI()), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Track records every request's location in the navigator.
func Track(tracker *navigation.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				tracker.Visit(r.URL.RequestURI())
			}
			next.ServeHTTP(w, r)
		})
	}
}
