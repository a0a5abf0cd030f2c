// Package session keeps the signed-in identity of the single local user
// and the role derived from the credentials used at login.
//
// Credentials are two fixed plain-text pairs. This is a mock sign-in gate,
// not an authentication system: nothing is hashed, rate limited or persisted.
package session

import (
	"sync"

	"github.com/atinyakov/ReportKeeper/internal/models"
)

// credential maps a fixed password to the role it grants.
type credential struct {
	password string
	role     models.Role
}

// credentials holds the only accepted username/password pairs.
var credentials = map[string]credential{
	"admin": {password: "admin123", role: models.RoleAdmin},
	"user":  {password: "user123", role: models.RoleViewer},
}

// State is a snapshot of the current session.
type State struct {
	// User is the signed-in username, empty when signed out.
	User string `json:"user"`
	// Role is the role granted at login, RoleNone when signed out.
	Role models.Role `json:"role"`
}

// SignedIn reports whether the snapshot belongs to a signed-in user.
func (s State) SignedIn() bool {
	return s.User != ""
}

// Session holds the current identity. The zero value is a signed-out session.
type Session struct {
	mu    sync.RWMutex
	state State
}

// New returns a signed-out session.
func New() *Session {
	return &Session{}
}

// Login checks the given pair against the fixed credentials. On a match it
// stores the username and the mapped role and returns true. Otherwise the
// session is left untouched and false is returned; the caller cannot tell an
// unknown user from a wrong password.
func (s *Session) Login(username, password string) bool {
	cred, ok := credentials[username]
	if !ok || cred.password != password {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{User: username, Role: cred.role}
	return true
}

// Logout clears the identity and role unconditionally.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
}

// Current returns a snapshot of the session.
func (s *Session) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
