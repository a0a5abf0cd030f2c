package http

import (
	"encoding/json"
	"net/http"

	"github.com/atinyakov/ReportKeeper/internal/session"
)

// AuthService defines the interface for sign-in operations
// required by the HTTP handlers.
type AuthService interface {
	// Login signs the user in, returning the new state or an error for bad credentials.
	Login(username, password string) (session.State, error)
	// Logout signs the user out.
	Logout()
	// Current returns the session state.
	Current() session.State
}

// AuthHandler handles HTTP requests for login, logout and the session state.
type AuthHandler struct {
	// AuthService performs the underlying session operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login. Bad credentials are reported with a
// generic 401 that does not say which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	st, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/session and reports who is signed in.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.AuthService.Current())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
