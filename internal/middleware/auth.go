// Package middleware provides HTTP middlewares for session gating and logging.
package middleware

import (
	"net/http"

	"github.com/atinyakov/ReportKeeper/internal/session"
)

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	Current() session.State
}

// RequireSession rejects requests while nobody is signed in.
//
// On success the snapshot taken here is attached with session.NewContext.
// The service layer runs its role check against that snapshot, so a request
// is judged by the role it was admitted with even if the session changes
// mid-request.
func RequireSession(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := sessions.Current()
			if !st.SignedIn() {
				http.Error(w, "not signed in", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), st)))
		})
	}
}
