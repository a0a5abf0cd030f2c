// Package service provides the application logic consumed by the HTTP API
// and the terminal shell: sign-in, role-gated report operations and content
// generation.
package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/atinyakov/ReportKeeper/internal/session"
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionStore defines the session operations required by the services.
type SessionStore interface {
	// Login checks the credentials and signs the user in on a match.
	Login(username, password string) bool
	// Logout signs the user out.
	Logout()
	// Current returns the session snapshot.
	Current() session.State
}

// LoginObserver is notified about login attempts.
type LoginObserver interface {
	ObserveLogin(ok bool)
}

// AuthService implements sign-in operations by delegating to a SessionStore.
type AuthService struct {
	sessions SessionStore
	log      *zap.Logger
	observer LoginObserver
}

// NewAuthService constructs an AuthService. log and observer may be nil.
func NewAuthService(sessions SessionStore, log *zap.Logger, observer LoginObserver) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{sessions: sessions, log: log, observer: observer}
}

// Login signs the user in and returns the new session state.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(username, password string) (session.State, error) {
	ok := s.sessions.Login(username, password)
	if s.observer != nil {
		s.observer.ObserveLogin(ok)
	}
	if !ok {
		s.log.Info("login rejected", zap.String("user", username))
		return s.sessions.Current(), ErrInvalidCredentials
	}
	st := s.sessions.Current()
	s.log.Info("user signed in", zap.String("user", st.User), zap.String("role", string(st.Role)))
	return st, nil
}

// Logout signs the current user out.
func (s *AuthService) Logout() {
	st := s.sessions.Current()
	s.sessions.Logout()
	if st.SignedIn() {
		s.log.Info("user signed out", zap.String("user", st.User))
	}
}

// Current returns the session state.
func (s *AuthService) Current() session.State {
	return s.sessions.Current()
}
